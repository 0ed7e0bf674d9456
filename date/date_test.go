package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is canonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Usually time.Time are not comparable (there is a pointer for the timezone).
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2024, time.January, 32), New(2024, time.February, 1); got != want {
		t.Errorf("New(2024, 1, 32) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024-01-02", want: New(2024, time.January, 2)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "02/01/2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestJSON(t *testing.T) {
	d := New(2024, time.March, 5)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2024-03-05"` {
		t.Errorf("Marshal = %s, want %q", data, "2024-03-05")
	}

	var got Date
	if err := json.Unmarshal([]byte(`"2024-03-05T14:12:00.000Z"`), &got); err != nil {
		t.Fatalf("Unmarshal timestamp: %v", err)
	}
	if got != d {
		t.Errorf("Unmarshal timestamp = %v, want %v", got, d)
	}

	// The zero date round-trips through "".
	var zero Date
	data, _ = json.Marshal(zero)
	if err := json.Unmarshal(data, &got); err != nil || !got.IsZero() {
		t.Errorf("zero date round trip = %v, %v", got, err)
	}

	if err := json.Unmarshal([]byte(`42`), &got); err == nil {
		t.Error("Unmarshal of a number must fail")
	}
}

func TestOrdering(t *testing.T) {
	a, b := MustParse("2024-01-01"), MustParse("2024-01-02")
	if !a.Before(b) || a.After(b) || !b.After(a) {
		t.Errorf("ordering between %v and %v is wrong", a, b)
	}
	if !a.Equal(MustParse("2024-1-1")) {
		t.Errorf("%v should equal 2024-1-1", a)
	}
}
