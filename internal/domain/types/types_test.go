package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/gachastat/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStatisticsRequest(t *testing.T) {
	Convey("Given a statistics request body", t, func() {
		Convey("When the pool is omitted", func() {
			var req types.StatisticsRequest
			err := json.Unmarshal([]byte(`{"gacha":[{"timestamp":1,"pool":"P","character":{"name":"a","rarity":3,"isNew":false}}]}`), &req)

			Convey("Then the request targets every pool", func() {
				So(err, ShouldBeNil)
				So(req.Pool, ShouldBeNil)
				So(req.Gacha, ShouldHaveLength, 1)
				So(req.Gacha[0].Character.Rarity, ShouldEqual, 3)
			})
		})

		Convey("When a pool is given", func() {
			var req types.StatisticsRequest
			err := json.Unmarshal([]byte(`{"gacha":[],"pool":"Standard"}`), &req)

			Convey("Then it is kept", func() {
				So(err, ShouldBeNil)
				So(req.Pool, ShouldNotBeNil)
				So(*req.Pool, ShouldEqual, "Standard")
			})
		})
	})
}

func TestServiceStats(t *testing.T) {
	Convey("Given stats without a finished run", t, func() {
		out, err := json.Marshal(types.ServiceStats{LoggedIn: true, StoredBatches: 3})

		Convey("Then last_run is omitted", func() {
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, `{"logged_in":true,"stored_batches":3,"queue_capacity":0}`)
		})
	})
}
