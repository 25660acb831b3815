package playtime

import "testing"

func intPtr(v int) *int { return &v }

func TestRecordDuration(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		now  int
		want int
	}{
		{name: "closed", rec: Record{StartSeconds: 100, EndSeconds: intPtr(400)}, now: 9999, want: 300},
		{name: "open measured against now", rec: Record{StartSeconds: 100}, now: 250, want: 150},
		{name: "open never negative", rec: Record{StartSeconds: 500}, now: 100, want: 0},
		{name: "closed never negative", rec: Record{StartSeconds: 500, EndSeconds: intPtr(100)}, now: 0, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rec.Duration(tc.now); got != tc.want {
				t.Fatalf("Duration = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestTotal(t *testing.T) {
	records := []Record{
		{PlayerID: "p-a", StartSeconds: 0, EndSeconds: intPtr(300)},
		{PlayerID: "p-a", StartSeconds: 600},
		{PlayerID: "p-b", StartSeconds: 0, EndSeconds: intPtr(600)},
	}

	if got := Total(records, "p-a", 900); got != 600 {
		t.Fatalf("Total(p-a) = %d, want 600", got)
	}
	if got := Total(records, "p-b", 900); got != 600 {
		t.Fatalf("Total(p-b) = %d, want 600", got)
	}
	if got := Total(records, "p-z", 900); got != 0 {
		t.Fatalf("Total(p-z) = %d, want 0", got)
	}
}

func TestTotal_FlatWhileOffField(t *testing.T) {
	records := []Record{
		{PlayerID: "p-a", StartSeconds: 0, EndSeconds: intPtr(300)},
	}

	at600 := Total(records, "p-a", 600)
	at900 := Total(records, "p-a", 900)
	if at600 != at900 || at600 != 300 {
		t.Fatalf("total moved while off field: %d then %d", at600, at900)
	}
}

func TestOpenRecord(t *testing.T) {
	records := []Record{
		{ID: "r1", PlayerID: "p-a", StartSeconds: 0, EndSeconds: intPtr(300)},
		{ID: "r2", PlayerID: "p-a", StartSeconds: 600},
	}

	rec, ok := OpenRecord(records, "p-a")
	if !ok || rec.ID != "r2" {
		t.Fatalf("OpenRecord = %+v, %t", rec, ok)
	}
	if !OnField(records, "p-a") {
		t.Fatalf("expected p-a on field")
	}
	if OnField(records, "p-b") {
		t.Fatalf("expected p-b off field")
	}
}
