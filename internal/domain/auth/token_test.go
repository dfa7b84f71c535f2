package auth_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/okian/gachastat/internal/domain/auth"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTokenSlot(t *testing.T) {
	Convey("Given an empty token slot", t, func() {
		slot := auth.NewTokenSlot()

		Convey("Then no token is available", func() {
			_, ok := slot.CurrentToken()
			So(ok, ShouldBeFalse)
		})

		Convey("When two logins complete in sequence", func() {
			slot.SetToken("first")
			slot.SetToken("second")

			Convey("Then the last write wins", func() {
				tok, ok := slot.CurrentToken()
				So(ok, ShouldBeTrue)
				So(tok, ShouldEqual, "second")
			})

			Convey("And clearing forgets it", func() {
				slot.Clear()
				_, ok := slot.CurrentToken()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When readers and writers race", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(2)
				go func(i int) {
					defer wg.Done()
					slot.SetToken(strconv.Itoa(i))
				}(i)
				go func() {
					defer wg.Done()
					_, _ = slot.CurrentToken()
				}()
			}
			wg.Wait()

			Convey("Then a complete token is always observed", func() {
				tok, ok := slot.CurrentToken()
				So(ok, ShouldBeTrue)
				n, err := strconv.Atoi(tok)
				So(err, ShouldBeNil)
				So(n, ShouldBeBetweenOrEqual, 0, 49)
			})
		})
	})
}
