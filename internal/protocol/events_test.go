package protocol

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	events := []Event{
		PointerEvent{Data: PointerData{UserID: "u1", X: 10, Y: 20}},
		PointerEvent{Data: PointerData{UserID: "u2", X: -3.5, Y: 0, Tool: "freedraw", Button: "down"}},
		ElementChangeEvent{Data: json.RawMessage(`[{"id":"e1","type":"rectangle"},{"id":"e2"}]`)},
		ElementChangeEvent{Data: json.RawMessage(`[]`)},
		UserJoinEvent{Data: UserData{UserID: "u1"}},
		UserLeaveEvent{Data: UserData{UserID: "u1"}},
		ViewChangeEvent{Data: ViewData{UserID: "u1", Zoom: 1.25, ScrollX: 100, ScrollY: -50}},
	}

	for _, ev := range events {
		raw, err := Encode(ev)
		if err != nil {
			t.Fatalf("Encode(%v): %v", ev.Type(), err)
		}
		got, err := Decode(raw)
		if err != nil {
			t.Fatalf("Decode(%s): %v", raw, err)
		}
		if !reflect.DeepEqual(got, ev) {
			t.Errorf("round trip mismatch for %s:\n got  %#v\n want %#v", ev.Type(), got, ev)
		}
	}
}

func TestDecodeWireFormat(t *testing.T) {
	raw := []byte(`{"type":"pointer","data":{"userId":"u1","x":10,"y":20,"tool":"selection","button":"up"}}`)
	ev, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	p, ok := ev.(PointerEvent)
	if !ok {
		t.Fatalf("expected PointerEvent, got %T", ev)
	}
	want := PointerData{UserID: "u1", X: 10, Y: 20, Tool: "selection", Button: "up"}
	if p.Data != want {
		t.Errorf("got %+v, want %+v", p.Data, want)
	}
}

func TestDecodeRejectsInvalidPayloads(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `not json at all`},
		{"setup control string", `"setup"`},
		{"missing type", `{"data":{"userId":"u1"}}`},
		{"unknown type", `{"type":"elementUpdate","data":[]}`},
		{"missing data", `{"type":"pointer"}`},
		{"pointer without coordinates", `{"type":"pointer","data":{"userId":"u1"}}`},
		{"pointer without userId", `{"type":"pointer","data":{"x":1,"y":2}}`},
		{"pointer bad button", `{"type":"pointer","data":{"userId":"u1","x":1,"y":2,"button":"middle"}}`},
		{"elementChange object data", `{"type":"elementChange","data":{"id":"e1"}}`},
		{"elementChange truncated array", `{"type":"elementChange","data":[{"id":"e1"}`},
		{"userJoin empty userId", `{"type":"userJoin","data":{"userId":""}}`},
		{"userLeave missing userId", `{"type":"userLeave","data":{}}`},
		{"viewChange missing zoom", `{"type":"viewChange","data":{"userId":"u1","scrollX":0,"scrollY":0}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.raw))
			if err == nil {
				t.Fatalf("Decode(%s) succeeded, want error", tc.raw)
			}
			if !errors.Is(err, ErrInvalidShape) {
				t.Errorf("Decode(%s) error %v, want ErrInvalidShape", tc.raw, err)
			}
		})
	}
}

func TestDecodeKeepsElementsOpaque(t *testing.T) {
	// Element records are not validated beyond being a sequence.
	raw := []byte(`{"type":"elementChange","data":[{"anything":["goes",42]},null,"strings too"]}`)
	ev, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	ec := ev.(ElementChangeEvent)
	if string(ec.Data) != `[{"anything":["goes",42]},null,"strings too"]` {
		t.Errorf("element payload rewritten: %s", ec.Data)
	}
}
