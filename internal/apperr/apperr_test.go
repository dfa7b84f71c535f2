package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/gachastat/internal/apperr"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWrapKind(t *testing.T) {
	Convey("Given a store failure", t, func() {
		cause := errors.New("disk full")
		err := apperr.WrapKind("repository.upsert", apperr.ErrStore, cause)

		Convey("Then it matches both kind and cause", func() {
			So(errors.Is(err, apperr.ErrStore), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(errors.Is(err, apperr.ErrNetwork), ShouldBeFalse)
		})

		Convey("And it renders a display string", func() {
			So(err.Error(), ShouldEqual, "repository.upsert: store error: disk full")
			So(apperr.KindName(err), ShouldEqual, "store_error")
		})

		Convey("And it survives further wrapping", func() {
			outer := fmt.Errorf("sync: %w", err)
			So(apperr.KindName(outer), ShouldEqual, "store_error")
		})
	})

	Convey("Given a nil error", t, func() {
		So(apperr.WrapKind("op", apperr.ErrIO, nil), ShouldBeNil)
	})

	Convey("Given a cause that already is the kind", t, func() {
		sentinel := fmt.Errorf("%w: not logged in", apperr.ErrUser)
		err := apperr.WrapKind("remote.fetch_page", apperr.ErrUser, sentinel)
		So(err.Error(), ShouldEqual, "remote.fetch_page: user error: not logged in")
	})

	Convey("Given an error with no known kind", t, func() {
		So(apperr.KindName(errors.New("x")), ShouldEqual, "internal_error")
		So(apperr.NewKind("op", apperr.ErrChannel).Error(), ShouldEqual, "op: channel error")
	})
}

func TestKindName_Nested(t *testing.T) {
	Convey("Given a channel error caused by a store error", t, func() {
		storeErr := apperr.WrapKind("repository.upsert", apperr.ErrStore, errors.New("disk full"))
		err := apperr.WrapKind("service.sync", apperr.ErrChannel, storeErr)

		Convey("Then the outer kind names the failure", func() {
			So(apperr.KindName(err), ShouldEqual, "channel_error")
			So(errors.Is(err, apperr.ErrStore), ShouldBeTrue)
		})
	})
}
