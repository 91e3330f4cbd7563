package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the row timestamp format: ISO-8601 local time with
// microsecond precision. Parseable back with the same layout.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// Header is the fixed CSV header shared by every session log.
const Header = "timestamp_local,event_type,x,y,deltaX,deltaY,phase,scrollDeltaX,scrollDeltaY,touch_id,touch_phase,touch_normalizedX,touch_normalizedY,touch_isResting"

const fieldCount = 14

// Kind is the enumerated category of a logged input event.
type Kind string

const (
	KindMouseMoved        Kind = "mouseMoved"
	KindLeftMouseDragged  Kind = "leftMouseDragged"
	KindRightMouseDragged Kind = "rightMouseDragged"
	KindOtherMouseDragged Kind = "otherMouseDragged"
	KindScrollWheel       Kind = "scrollWheel"
	KindMagnify           Kind = "magnify"
	KindRotate            Kind = "rotate"
	KindSwipe             Kind = "swipe"
	KindTouch             Kind = "touch"
)

// IsDrag reports whether the kind is one of the pointer-drag variants.
func (k Kind) IsDrag() bool {
	switch k {
	case KindLeftMouseDragged, KindRightMouseDragged, KindOtherMouseDragged:
		return true
	}
	return false
}

// IsPointer reports whether the kind carries a pointer position.
func (k Kind) IsPointer() bool {
	return k == KindMouseMoved || k.IsDrag()
}

// XY is an optional coordinate pair.
type XY struct {
	X, Y float64
}

// TouchSample describes one finger in a touch event.
type TouchSample struct {
	ID          string
	Phase       string
	NormalizedX float64
	NormalizedY float64
	Resting     bool
}

// EventRecord is one logged row. Nil optional fields are emitted as empty
// strings so every kind shares the same fixed row shape.
type EventRecord struct {
	Time   time.Time
	Kind   Kind
	Pos    *XY  // pointer position
	Delta  *XY  // pointer deltas
	Phase  *int // gesture phase
	Scroll *XY  // scroll deltas
	Touch  *TouchSample
}

// PointerEvent builds a pointer-move or pointer-drag record.
func PointerEvent(kind Kind, t time.Time, x, y, dx, dy float64) EventRecord {
	return EventRecord{
		Time:  t,
		Kind:  kind,
		Pos:   &XY{X: x, Y: y},
		Delta: &XY{X: dx, Y: dy},
	}
}

// ScrollEvent builds a scroll-wheel record.
func ScrollEvent(t time.Time, scrollDX, scrollDY float64, phase int) EventRecord {
	return EventRecord{
		Time:   t,
		Kind:   KindScrollWheel,
		Phase:  &phase,
		Scroll: &XY{X: scrollDX, Y: scrollDY},
	}
}

// GestureEvent builds a magnify, rotate, or swipe record.
func GestureEvent(kind Kind, t time.Time, phase int) EventRecord {
	return EventRecord{Time: t, Kind: kind, Phase: &phase}
}

// TouchEvent builds a per-finger touch record.
func TouchEvent(t time.Time, sample TouchSample) EventRecord {
	s := sample
	return EventRecord{Time: t, Kind: KindTouch, Touch: &s}
}

// fields returns the 14 column values in header order. Absent fields are
// empty strings, never omitted.
func (e EventRecord) fields() [fieldCount]string {
	var f [fieldCount]string
	f[0] = e.Time.Format(TimestampLayout)
	f[1] = string(e.Kind)
	if e.Pos != nil {
		f[2] = formatFloat(e.Pos.X)
		f[3] = formatFloat(e.Pos.Y)
	}
	if e.Delta != nil {
		f[4] = formatFloat(e.Delta.X)
		f[5] = formatFloat(e.Delta.Y)
	}
	if e.Phase != nil {
		f[6] = strconv.Itoa(*e.Phase)
	}
	if e.Scroll != nil {
		f[7] = formatFloat(e.Scroll.X)
		f[8] = formatFloat(e.Scroll.Y)
	}
	if e.Touch != nil {
		f[9] = e.Touch.ID
		f[10] = e.Touch.Phase
		f[11] = formatFloat(e.Touch.NormalizedX)
		f[12] = formatFloat(e.Touch.NormalizedY)
		f[13] = strconv.FormatBool(e.Touch.Resting)
	}
	return f
}

// MarshalRow serializes the record as one CSV row including the trailing
// newline. Values never contain commas or quotes, so no escaping is needed
// and the whole row is built in memory before any write happens.
func (e EventRecord) MarshalRow() []byte {
	f := e.fields()
	var sb strings.Builder
	sb.Grow(96)
	for i, v := range f {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v)
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}

// ParseRow parses one data row back into an EventRecord.
func ParseRow(line string) (EventRecord, error) {
	parts := strings.Split(strings.TrimRight(line, "\n"), ",")
	if len(parts) != fieldCount {
		return EventRecord{}, fmt.Errorf("row has %d fields, want %d", len(parts), fieldCount)
	}

	ts, err := time.Parse(TimestampLayout, parts[0])
	if err != nil {
		return EventRecord{}, fmt.Errorf("parse timestamp %q: %w", parts[0], err)
	}

	e := EventRecord{Time: ts, Kind: Kind(parts[1])}

	if pos, ok, err := parseXY(parts[2], parts[3]); err != nil {
		return EventRecord{}, fmt.Errorf("parse position: %w", err)
	} else if ok {
		e.Pos = pos
	}
	if delta, ok, err := parseXY(parts[4], parts[5]); err != nil {
		return EventRecord{}, fmt.Errorf("parse deltas: %w", err)
	} else if ok {
		e.Delta = delta
	}
	if parts[6] != "" {
		phase, err := strconv.Atoi(parts[6])
		if err != nil {
			return EventRecord{}, fmt.Errorf("parse phase %q: %w", parts[6], err)
		}
		e.Phase = &phase
	}
	if scroll, ok, err := parseXY(parts[7], parts[8]); err != nil {
		return EventRecord{}, fmt.Errorf("parse scroll deltas: %w", err)
	} else if ok {
		e.Scroll = scroll
	}
	if parts[9] != "" || parts[10] != "" {
		nx, err := parseFloat(parts[11])
		if err != nil {
			return EventRecord{}, fmt.Errorf("parse touch x: %w", err)
		}
		ny, err := parseFloat(parts[12])
		if err != nil {
			return EventRecord{}, fmt.Errorf("parse touch y: %w", err)
		}
		resting := parts[13] == "true"
		e.Touch = &TouchSample{
			ID:          parts[9],
			Phase:       parts[10],
			NormalizedX: nx,
			NormalizedY: ny,
			Resting:     resting,
		}
	}
	return e, nil
}

// Describe returns a short human-readable summary for live display.
func (e EventRecord) Describe() string {
	switch {
	case e.Kind == KindScrollWheel && e.Scroll != nil:
		return fmt.Sprintf("%s dX=%.1f dY=%.1f", e.Kind, e.Scroll.X, e.Scroll.Y)
	case e.Kind == KindTouch && e.Touch != nil:
		return fmt.Sprintf("touch %s %s (%.3f, %.3f)", e.Touch.ID, e.Touch.Phase, e.Touch.NormalizedX, e.Touch.NormalizedY)
	case e.Pos != nil:
		return fmt.Sprintf("%s (%.1f, %.1f)", e.Kind, e.Pos.X, e.Pos.Y)
	default:
		return string(e.Kind)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseXY(xs, ys string) (*XY, bool, error) {
	if xs == "" && ys == "" {
		return nil, false, nil
	}
	x, err := parseFloat(xs)
	if err != nil {
		return nil, false, err
	}
	y, err := parseFloat(ys)
	if err != nil {
		return nil, false, err
	}
	return &XY{X: x, Y: y}, true, nil
}
