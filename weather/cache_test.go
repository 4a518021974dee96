package weather

import (
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCache(t *testing.T) {
	Convey("Nil cache", t, func() {
		var c *Cache
		c.Set(Metric, "London", []byte("{}"))
		_, ok := c.Get(Metric, "London")
		So(ok, ShouldBeFalse)
		So(c.Len(), ShouldEqual, 0)
		So(c.Save(filepath.Join(t.TempDir(), "cache")), ShouldBeNil)
	})

	Convey("Keys ignore case and padding", t, func() {
		c := NewCache()
		c.Set(Metric, " London", []byte(`{"a":1}`))
		data, ok := c.Get(Metric, "LONDON")
		So(ok, ShouldBeTrue)
		So(string(data), ShouldEqual, `{"a":1}`)
		_, ok = c.Get(Imperial, "London")
		So(ok, ShouldBeFalse)
	})

	Convey("Round trip through a file", t, func() {
		path := filepath.Join(t.TempDir(), "nested", "cache.gob")
		c := NewCache()
		c.Set(Imperial, "London", []byte(londonJSON))
		So(c.Save(path), ShouldBeNil)

		loaded, err := LoadCache(path)
		So(err, ShouldBeNil)
		data, ok := loaded.Get(Imperial, "london")
		So(ok, ShouldBeTrue)
		So(string(data), ShouldEqual, londonJSON)
	})

	Convey("Missing file gives an empty cache", t, func() {
		c, err := LoadCache(filepath.Join(t.TempDir(), "absent"))
		So(err, ShouldBeNil)
		So(c.Len(), ShouldEqual, 0)
	})
}
