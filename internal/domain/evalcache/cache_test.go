package evalcache_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/kitcheck/internal/domain/colormetric"
	"github.com/okian/kitcheck/internal/domain/conflict"
	"github.com/okian/kitcheck/internal/domain/evalcache"
	. "github.com/smartystreets/goconvey/convey"
)

func key(i int) evalcache.Key {
	return evalcache.Key{A: fmt.Sprintf("#%06X", i), B: "#FFFFFF", BaseDeltaE: 15, BaseContrast: 2.5}
}

func TestInMemoryCache(t *testing.T) {
	Convey("Given a new cache", t, func() {
		Convey("When created with default options", func() {
			c := evalcache.New()

			Convey("Then it should be empty", func() {
				So(c.Size(), ShouldEqual, 0)
				So(c.Hits(), ShouldEqual, 0)
				So(c.Misses(), ShouldEqual, 0)
			})
		})

		Convey("When a result is stored", func() {
			c := evalcache.New()
			want := conflict.Result{Conflict: true}
			c.Put(key(1), want)

			Convey("Then it should be returned for the same key", func() {
				got, ok := c.Get(key(1))
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, want)
				So(c.Hits(), ShouldEqual, 1)
			})

			Convey("And other baselines should miss", func() {
				k := key(1)
				k.BaseDeltaE = 10
				_, ok := c.Get(k)
				So(ok, ShouldBeFalse)
				So(c.Misses(), ShouldEqual, 1)
			})

			Convey("And storing it again should not grow the cache", func() {
				c.Put(key(1), conflict.Result{})
				got, _ := c.Get(key(1))
				So(got.Conflict, ShouldBeFalse)
				So(c.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the bounded cache is at capacity", func() {
			c := evalcache.New(evalcache.WithMaxSize(3))
			for i := 0; i < 3; i++ {
				c.Put(key(i), conflict.Result{})
			}
			c.Put(key(3), conflict.Result{})

			Convey("Then the oldest entry should be evicted", func() {
				So(c.Size(), ShouldEqual, 3)
				_, ok := c.Get(key(0))
				So(ok, ShouldBeFalse)
				for i := 1; i <= 3; i++ {
					_, ok := c.Get(key(i))
					So(ok, ShouldBeTrue)
				}
			})
		})

		Convey("When the cache holds a single slot", func() {
			c := evalcache.New(evalcache.WithMaxSize(1))
			for i := 0; i < 5; i++ {
				c.Put(key(i), conflict.Result{})
			}

			Convey("Then only the newest entry should remain", func() {
				So(c.Size(), ShouldEqual, 1)
				_, ok := c.Get(key(4))
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the cache is unbounded", func() {
			c := evalcache.New(evalcache.WithMaxSize(0))
			for i := 0; i < 10_000; i++ {
				c.Put(key(i), conflict.Result{})
			}

			Convey("Then nothing should be evicted", func() {
				So(c.Size(), ShouldEqual, 10_000)
			})
		})
	})

	Convey("Given a cache with concurrent access", t, func() {
		c := evalcache.New(evalcache.WithMaxSize(64))
		var wg sync.WaitGroup

		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					k := key(g*1000 + i%100)
					if _, ok := c.Get(k); !ok {
						c.Put(k, conflict.Result{})
					}
				}
			}(g)
		}
		wg.Wait()

		Convey("Then the bound should hold", func() {
			So(c.Size(), ShouldBeLessThanOrEqualTo, 64)
			So(c.Hits()+c.Misses(), ShouldEqual, 8*200)
		})
	})
}

func TestEvaluator(t *testing.T) {
	Convey("Given a caching evaluator", t, func() {
		cache := evalcache.New()
		ev := evalcache.Wrap(cache, conflict.NewEvaluator())

		Convey("When the same pair is evaluated twice", func() {
			first, err1 := ev.Evaluate("#FF0000", "#FE0101")
			second, err2 := ev.Evaluate("#FF0000", "#FE0101")

			Convey("Then the second result should come from the cache", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
				So(first.Conflict, ShouldBeTrue)
				So(cache.Hits(), ShouldEqual, 1)
				So(cache.Misses(), ShouldEqual, 1)
			})
		})

		Convey("When a different baseline shares the cache", func() {
			_, _ = ev.Evaluate("#000000", "#FFFFFF")
			strict := evalcache.Wrap(cache, conflict.NewEvaluator(conflict.WithBaseDeltaE(0)))
			r, err := strict.Evaluate("#000000", "#FFFFFF")

			Convey("Then it should not reuse the other baseline's result", func() {
				So(err, ShouldBeNil)
				So(r.Thresholds.DeltaE, ShouldEqual, 0)
				So(cache.Size(), ShouldEqual, 2)
			})
		})

		Convey("When a color is invalid", func() {
			_, err := ev.Evaluate("#GGG", "#FFF")

			Convey("Then the error should pass through uncached", func() {
				So(errors.Is(err, colormetric.ErrInvalidColorFormat), ShouldBeTrue)
				So(cache.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestTTLCache(t *testing.T) {
	Convey("Given a TTL cache", t, func() {
		c := evalcache.NewTTL(50 * time.Millisecond)

		Convey("When a result is stored", func() {
			c.Put(key(1), conflict.Result{Conflict: true})

			Convey("Then it should be served until it expires", func() {
				got, ok := c.Get(key(1))
				So(ok, ShouldBeTrue)
				So(got.Conflict, ShouldBeTrue)
				So(c.Size(), ShouldEqual, 1)

				time.Sleep(80 * time.Millisecond)
				_, ok = c.Get(key(1))
				So(ok, ShouldBeFalse)
				So(c.Hits(), ShouldEqual, 1)
				So(c.Misses(), ShouldEqual, 1)
			})
		})

		Convey("When keys differ only in a baseline", func() {
			a := key(1)
			b := key(1)
			b.BaseContrast = 3
			c.Put(a, conflict.Result{Conflict: true})

			Convey("Then they should not collide", func() {
				So(a.String(), ShouldNotEqual, b.String())
				_, ok := c.Get(b)
				So(ok, ShouldBeFalse)
			})
		})
	})
}
