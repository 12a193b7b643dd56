package builtins

import (
	"time"

	"github.com/dev-jelly/yui/internal/calc/calcerr"
	"github.com/dev-jelly/yui/internal/calc/interp"
	"github.com/dev-jelly/yui/internal/calc/numeric"
)

// dateConstructor builds the `date` pre-bound callable (spec.md §6's
// `test_call` scenario: `date(2019, 10, day=7)`).
func dateConstructor(dom numeric.Domain) interp.Callable {
	return interp.Callable{Name: "date", Fn: func(args []interp.Value, kwargs map[string]interp.Value) (interp.Value, error) {
		y, m, d, err := yearMonthDay(args, kwargs)
		if err != nil {
			return nil, err
		}
		return newDateObject(dom, y, m, d), nil
	}}
}

// datetimeClass builds the `datetime` pre-bound name: both a constructor
// (`datetime(2020, 1, 1)`) and an attribute host exposing `now()`
// (spec.md §6's `datetime.now().date()` scenario).
func datetimeClass(dom numeric.Domain) *interp.ClassObject {
	construct := func(args []interp.Value, kwargs map[string]interp.Value) (interp.Value, error) {
		y, mo, d, err := yearMonthDay(args, kwargs)
		if err != nil {
			return nil, err
		}
		h, mi, s := 0, 0, 0
		if v, err := optionalInt(args, kwargs, 3, "hour"); err == nil {
			h = v
		}
		if v, err := optionalInt(args, kwargs, 4, "minute"); err == nil {
			mi = v
		}
		if v, err := optionalInt(args, kwargs, 5, "second"); err == nil {
			s = v
		}
		return newDatetimeObject(dom, time.Date(y, time.Month(mo), d, h, mi, s, 0, time.UTC)), nil
	}

	return &interp.ClassObject{
		TypeTag: "datetime_class",
		Attrs: map[string]interp.Value{
			"now": interp.Callable{Name: "datetime.now", Fn: func([]interp.Value, map[string]interp.Value) (interp.Value, error) {
				return newDatetimeObject(dom, time.Now()), nil
			}},
		},
		Construct: construct,
	}
}

func yearMonthDay(args []interp.Value, kwargs map[string]interp.Value) (y, m, d int, err error) {
	y, err = optionalInt(args, kwargs, 0, "year")
	if err != nil {
		return 0, 0, 0, err
	}
	m, err = optionalInt(args, kwargs, 1, "month")
	if err != nil {
		return 0, 0, 0, err
	}
	d, err = optionalInt(args, kwargs, 2, "day")
	if err != nil {
		return 0, 0, 0, err
	}
	return y, m, d, nil
}

func optionalInt(args []interp.Value, kwargs map[string]interp.Value, pos int, name string) (int, error) {
	if pos < len(args) {
		n, ok := args[pos].(interp.Number)
		if !ok {
			return 0, calcerr.NewRuntimeError("%s must be an integer", name)
		}
		iv, _ := n.Dom.ToInt64(n.S)
		return int(iv), nil
	}
	if v, ok := kwargs[name]; ok {
		n, ok := v.(interp.Number)
		if !ok {
			return 0, calcerr.NewRuntimeError("%s must be an integer", name)
		}
		iv, _ := n.Dom.ToInt64(n.S)
		return int(iv), nil
	}
	return 0, calcerr.NewRuntimeError("missing required argument: %q", name)
}

func newDateObject(dom numeric.Domain, y, m, d int) *interp.BoundObject {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	intAttr := func(n int) interp.Value {
		return interp.Number{Dom: dom, S: dom.FromInt(int64(n))}
	}
	return &interp.BoundObject{
		TypeTag: "date",
		Attrs: map[string]interp.Value{
			"year":  intAttr(y),
			"month": intAttr(m),
			"day":   intAttr(d),
			"weekday": interp.Callable{Name: "date.weekday", Fn: func([]interp.Value, map[string]interp.Value) (interp.Value, error) {
				return intAttr(int(t.Weekday()+6) % 7), nil
			}},
			"isoweekday": interp.Callable{Name: "date.isoweekday", Fn: func([]interp.Value, map[string]interp.Value) (interp.Value, error) {
				return intAttr(int(t.Weekday()+6)%7 + 1), nil
			}},
			"toordinal": interp.Callable{Name: "date.toordinal", Fn: func([]interp.Value, map[string]interp.Value) (interp.Value, error) {
				return intAttr(int(t.Unix()/86400) + 719163), nil
			}},
			"isoformat": interp.Callable{Name: "date.isoformat", Fn: func([]interp.Value, map[string]interp.Value) (interp.Value, error) {
				return interp.Str{S: t.Format("2006-01-02")}, nil
			}},
			"replace": interp.Callable{Name: "date.replace", Fn: func(args []interp.Value, kwargs map[string]interp.Value) (interp.Value, error) {
				ny, nm, nd := y, m, d
				if v, err := optionalInt(args, kwargs, 0, "year"); err == nil {
					ny = v
				}
				if v, err := optionalInt(args, kwargs, 1, "month"); err == nil {
					nm = v
				}
				if v, err := optionalInt(args, kwargs, 2, "day"); err == nil {
					nd = v
				}
				return newDateObject(dom, ny, nm, nd), nil
			}},
		},
	}
}

func newDatetimeObject(dom numeric.Domain, t time.Time) *interp.BoundObject {
	intAttr := func(n int) interp.Value {
		return interp.Number{Dom: dom, S: dom.FromInt(int64(n))}
	}
	return &interp.BoundObject{
		TypeTag: "datetime",
		Attrs: map[string]interp.Value{
			"year":        intAttr(t.Year()),
			"month":       intAttr(int(t.Month())),
			"day":         intAttr(t.Day()),
			"hour":        intAttr(t.Hour()),
			"minute":      intAttr(t.Minute()),
			"second":      intAttr(t.Second()),
			"microsecond": intAttr(t.Nanosecond() / 1000),
			"weekday": interp.Callable{Name: "datetime.weekday", Fn: func([]interp.Value, map[string]interp.Value) (interp.Value, error) {
				return intAttr(int(t.Weekday()+6) % 7), nil
			}},
			"isoweekday": interp.Callable{Name: "datetime.isoweekday", Fn: func([]interp.Value, map[string]interp.Value) (interp.Value, error) {
				return intAttr(int(t.Weekday()+6)%7 + 1), nil
			}},
			"date": interp.Callable{Name: "datetime.date", Fn: func([]interp.Value, map[string]interp.Value) (interp.Value, error) {
				return newDateObject(dom, t.Year(), int(t.Month()), t.Day()), nil
			}},
			"isoformat": interp.Callable{Name: "datetime.isoformat", Fn: func([]interp.Value, map[string]interp.Value) (interp.Value, error) {
				return interp.Str{S: t.Format("2006-01-02T15:04:05")}, nil
			}},
			"timestamp": interp.Callable{Name: "datetime.timestamp", Fn: func([]interp.Value, map[string]interp.Value) (interp.Value, error) {
				sc, err := dom.FromFloatText(formatFloat(float64(t.UnixNano()) / 1e9))
				if err != nil {
					return nil, err
				}
				return interp.Number{Dom: dom, S: sc}, nil
			}},
			"replace": interp.Callable{Name: "datetime.replace", Fn: func(args []interp.Value, kwargs map[string]interp.Value) (interp.Value, error) {
				ny, nm, nd := t.Year(), int(t.Month()), t.Day()
				nh, nmi, ns := t.Hour(), t.Minute(), t.Second()
				if v, err := optionalInt(args, kwargs, 0, "year"); err == nil {
					ny = v
				}
				if v, err := optionalInt(args, kwargs, 1, "month"); err == nil {
					nm = v
				}
				if v, err := optionalInt(args, kwargs, 2, "day"); err == nil {
					nd = v
				}
				if v, err := optionalInt(args, kwargs, 3, "hour"); err == nil {
					nh = v
				}
				if v, err := optionalInt(args, kwargs, 4, "minute"); err == nil {
					nmi = v
				}
				if v, err := optionalInt(args, kwargs, 5, "second"); err == nil {
					ns = v
				}
				return newDatetimeObject(dom, time.Date(ny, time.Month(nm), nd, nh, nmi, ns, 0, time.UTC)), nil
			}},
		},
	}
}
