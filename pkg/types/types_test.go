package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/angelmondragon/shoppingcart/pkg/enums"
	"github.com/shopspring/decimal"
)

func TestAdjustmentsValueAndScan(t *testing.T) {
	payload := Adjustments{{
		Key:    enums.AdjustmentKeyShippingCost,
		Type:   enums.AdjustmentTypeCharge,
		Name:   "Costo de envío",
		Amount: decimal.RequireFromString("35.00"),
	}}

	val, err := payload.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}

	var decoded Adjustments
	if err := decoded.Scan([]byte(val.(string))); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 adjustment, got %d", len(decoded))
	}
	got := decoded[0]
	if got.Key != enums.AdjustmentKeyShippingCost || got.Type != enums.AdjustmentTypeCharge {
		t.Fatalf("unexpected key/type %q/%q", got.Key, got.Type)
	}
	if got.Name != "Costo de envío" {
		t.Fatalf("unexpected name %q", got.Name)
	}
	if !got.Amount.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("unexpected amount %s", got.Amount)
	}
	if !decoded.Has(enums.AdjustmentKeyShippingCost) {
		t.Fatal("expected Has to find the shipping adjustment")
	}
}

func TestAdjustmentsScanNilAndNull(t *testing.T) {
	var adjustments Adjustments
	if err := adjustments.Scan(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adjustments == nil || len(adjustments) != 0 {
		t.Fatalf("expected empty list, got %#v", adjustments)
	}
	if err := adjustments.Scan("null"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adjustments == nil {
		t.Fatal("json null should decode to an empty list")
	}
	if err := adjustments.Scan(42); err == nil {
		t.Fatal("expected unsupported scan type to fail")
	}
}

func TestAdjustmentsValueRejectsInvalidType(t *testing.T) {
	bad := Adjustments{{Key: enums.AdjustmentKeyShippingCost, Type: "tip", Amount: decimal.NewFromInt(1)}}
	if _, err := bad.Value(); err == nil {
		t.Fatal("expected invalid adjustment type to fail")
	}
	var empty Adjustments
	val, err := empty.Value()
	if err != nil || val != "[]" {
		t.Fatalf("expected nil adjustments to encode as [], got %v err=%v", val, err)
	}
}

func TestGeographyPoint(t *testing.T) {
	if NewGeographyPoint(math.NaN(), 10) != nil {
		t.Fatal("NaN latitude must be treated as unknown")
	}
	if NewGeographyPoint(10, math.Inf(1)) != nil {
		t.Fatal("infinite longitude must be treated as unknown")
	}
	if NewGeographyPoint(91, 0) != nil {
		t.Fatal("out of range latitude must be rejected")
	}

	p := NewGeographyPoint(19.4326, -99.1332)
	if p == nil {
		t.Fatal("expected a valid point")
	}
	val, err := p.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if val != "SRID=4326;POINT(-99.1332 19.4326)" {
		t.Fatalf("unexpected EWKT %v", val)
	}

	precise, err := GeographyPoint{Lat: 19.4326001, Lng: -99.1332009}.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if precise != "SRID=4326;POINT(-99.1332009 19.4326001)" {
		t.Fatalf("coordinates must keep full precision, got %v", precise)
	}
	if _, err := (GeographyPoint{Lat: math.NaN()}).Value(); err == nil {
		t.Fatal("expected invalid point Value to fail")
	}
}

func TestPointFromJSON(t *testing.T) {
	tests := []struct {
		name  string
		lat   string
		lng   string
		valid bool
	}{
		{name: "numbers", lat: `19.43`, lng: `-99.13`, valid: true},
		{name: "quoted numbers", lat: `"19.43"`, lng: `"-99.13"`, valid: true},
		{name: "null latitude", lat: `null`, lng: `-99.13`},
		{name: "missing longitude", lat: `19.43`, lng: ``},
		{name: "nan string", lat: `"NaN"`, lng: `-99.13`},
		{name: "garbage", lat: `"north"`, lng: `-99.13`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lat, lng json.RawMessage
			if tt.lat != "" {
				lat = json.RawMessage(tt.lat)
			}
			if tt.lng != "" {
				lng = json.RawMessage(tt.lng)
			}
			got := PointFromJSON(lat, lng)
			if tt.valid && got == nil {
				t.Fatal("expected a point")
			}
			if !tt.valid && got != nil {
				t.Fatalf("expected nil, got %+v", got)
			}
		})
	}
}
