package testremote_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/gachastat/internal/adapters/remote"
	"github.com/okian/gachastat/internal/apperr"
	"github.com/okian/gachastat/internal/domain/auth"
	"github.com/okian/gachastat/internal/domain/model"
	"github.com/okian/gachastat/internal/testremote"
	"github.com/okian/gachastat/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given a generated history", t, func() {
		until := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		h := testremote.Generate(57, []string{"A", "B"}, until)

		Convey("Then it is newest first with unique timestamps", func() {
			So(h, ShouldHaveLength, 57)
			So(h[0].Timestamp, ShouldEqual, until.Unix())
			for i := 1; i < len(h); i++ {
				So(h[i].Timestamp, ShouldBeLessThan, h[i-1].Timestamp)
			}
		})

		Convey("And every draw is in a known pool and tier", func() {
			for _, b := range h {
				So(b.Pool, ShouldBeIn, "A", "B")
				So(len(b.Characters), ShouldBeIn, 1, 10)
				for _, c := range b.Characters {
					So(c.Rarity, ShouldBeBetweenOrEqual, model.MinRarity, model.MaxRarity)
				}
			}
		})
	})
}

func TestServer_WithClient(t *testing.T) {
	Convey("Given a mock remote with 23 batches", t, func() {
		cfg := testremote.DefaultConfig()
		srv := testremote.NewServer(cfg, testremote.Generate(23, nil, time.Now()))
		ts := httptest.NewServer(srv.Handler())
		defer ts.Close()

		slot := auth.NewTokenSlot()
		client := remote.New(ts.URL+testremote.GachaPath, ts.URL+testremote.TokenPath, slot)
		ctx := context.Background()

		Convey("When logging in with the accepted credential", func() {
			tok, err := client.Login(ctx, model.Credential{Phone: cfg.Phone, Password: cfg.Password})
			So(err, ShouldBeNil)
			So(tok, ShouldEqual, cfg.Token)
			So(srv.Logins(), ShouldEqual, 1)

			Convey("Then history pages are served ten at a time", func() {
				slot.SetToken(tok)
				p1, err := client.FetchPage(ctx, 1)
				So(err, ShouldBeNil)
				So(p1.Batches, ShouldHaveLength, 10)
				So(p1.TotalPages, ShouldEqual, 3)
				So(p1.Batches[0], ShouldResemble, srv.History()[0])

				p3, err := client.FetchPage(ctx, 3)
				So(err, ShouldBeNil)
				So(p3.Batches, ShouldHaveLength, 3)
				So(p3.Current, ShouldEqual, 3)

				p4, err := client.FetchPage(ctx, 4)
				So(err, ShouldBeNil)
				So(p4.Batches, ShouldBeEmpty)
				So(srv.Fetches(), ShouldEqual, 3)
			})
		})

		Convey("When logging in with a wrong password", func() {
			_, err := client.Login(ctx, model.Credential{Phone: cfg.Phone, Password: "nope"})
			So(errors.Is(err, remote.ErrLoginFailed), ShouldBeTrue)
		})

		Convey("When fetching with a stale token", func() {
			slot.SetToken("stale")
			_, err := client.FetchPage(ctx, 1)
			So(errors.Is(err, apperr.ErrSerialization), ShouldBeTrue)
		})

		Convey("When new pulls are prepended", func() {
			newest := model.DrawBatch{Timestamp: srv.History()[0].Timestamp + 60, Pool: "A"}
			srv.Prepend(newest)
			So(srv.History(), ShouldHaveLength, 24)
			So(srv.History()[0].Timestamp, ShouldEqual, newest.Timestamp)
		})
	})
}
