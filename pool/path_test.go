package pool

import (
	"sync"
	"testing"
)

func TestPathBuilder(t *testing.T) {
	pb := AcquirePathBuilder()
	defer pb.Release()

	pb.Field("Patient")
	pb.Field("contact")
	pb.Index(0)
	pb.Field("name")

	if got := pb.String(); got != "Patient.contact[0].name" {
		t.Errorf("String() = %q", got)
	}
	if pb.Len() != len("Patient.contact[0].name") {
		t.Errorf("Len() = %d", pb.Len())
	}
}

func TestPathBuilder_NilRelease(t *testing.T) {
	var pb *PathBuilder
	pb.Release()
}

func TestField(t *testing.T) {
	tests := []struct {
		base, name, want string
	}{
		{"Period", "end", "Period.end"},
		{"", "Period", "Period"},
		{"Patient.name[1]", "given", "Patient.name[1].given"},
	}
	for _, tt := range tests {
		if got := Field(tt.base, tt.name); got != tt.want {
			t.Errorf("Field(%q, %q) = %q; want %q", tt.base, tt.name, got, tt.want)
		}
	}
}

func TestIndex(t *testing.T) {
	if got := Index("Patient.name", 12); got != "Patient.name[12]" {
		t.Errorf("Index() = %q", got)
	}
}

func TestJoin(t *testing.T) {
	if got := Join("Identifier", "", "assigner", "reference"); got != "Identifier.assigner.reference" {
		t.Errorf("Join() = %q", got)
	}
	if got := Join(); got != "" {
		t.Errorf("Join() = %q; want empty", got)
	}
}

func TestKeys(t *testing.T) {
	s := AcquireKeys()
	*s = append(*s, "a", "b")
	ReleaseKeys(s)
	ReleaseKeys(nil)

	s2 := AcquireKeys()
	defer ReleaseKeys(s2)
	if len(*s2) != 0 {
		t.Errorf("AcquireKeys() len = %d; want 0", len(*s2))
	}
}

func TestPool_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			want := Index("Bundle.entry", n)
			if got := Field(want, "resource"); got != want+".resource" {
				t.Errorf("Field() = %q", got)
			}
		}(i)
	}
	wg.Wait()
}
