package credentials

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/gachastat/internal/apperr"
	"github.com/okian/gachastat/internal/domain/model"
	"github.com/okian/gachastat/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh data directory", t, func() {
		dir := t.TempDir()
		s := NewFileStore(filepath.Join(dir, "nested", FileName))

		Convey("When nothing was saved", func() {
			cred, err := s.Load(ctx)
			So(err, ShouldBeNil)
			So(cred, ShouldBeNil)
		})

		Convey("When a credential is saved twice", func() {
			So(s.Save(ctx, model.Credential{Phone: "1", Password: "a"}), ShouldBeNil)
			So(s.Save(ctx, model.Credential{Phone: "2", Password: "b"}), ShouldBeNil)

			Convey("Then the last one is loaded back", func() {
				cred, err := s.Load(ctx)
				So(err, ShouldBeNil)
				So(cred, ShouldResemble, &model.Credential{Phone: "2", Password: "b"})
			})

			Convey("Then the file is private and no temp files remain", func() {
				info, err := os.Stat(s.Path())
				So(err, ShouldBeNil)
				So(info.Mode().Perm(), ShouldEqual, os.FileMode(0o600))

				entries, err := os.ReadDir(filepath.Dir(s.Path()))
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})

			Convey("Then the on-disk format is plain JSON", func() {
				data, err := os.ReadFile(s.Path())
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{"phone":"2","password":"b"}`)
			})
		})

		Convey("When the file holds something else", func() {
			So(os.MkdirAll(filepath.Dir(s.Path()), 0o700), ShouldBeNil)
			So(os.WriteFile(s.Path(), []byte("{oops"), 0o600), ShouldBeNil)

			cred, err := s.Load(ctx)
			So(err, ShouldBeNil)
			So(cred, ShouldBeNil)
		})

		Convey("When the path is a directory", func() {
			So(os.MkdirAll(s.Path(), 0o700), ShouldBeNil)

			_, err := s.Load(ctx)
			So(errors.Is(err, apperr.ErrIO), ShouldBeTrue)
			So(errors.Is(s.Save(ctx, model.Credential{}), apperr.ErrIO), ShouldBeTrue)
		})
	})
}
