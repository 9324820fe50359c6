package initwfn

import (
	"encoding/json"
	"testing"
)

func TestInitWFnJSONRoundTrip(t *testing.T) {
	glorotU, err := NewGlorotU(1.0)
	if err != nil {
		t.Fatalf("could not create GlorotU initializer: %v", err)
	}
	glorotN, err := NewGlorotN(0.5)
	if err != nil {
		t.Fatalf("could not create GlorotN initializer: %v", err)
	}
	zeroes, err := NewZeroes()
	if err != nil {
		t.Fatalf("could not create Zeroes initializer: %v", err)
	}

	for _, init := range []*InitWFn{glorotU, glorotN, zeroes} {
		encoded, err := json.Marshal(init)
		if err != nil {
			t.Fatalf("could not marshal %v: %v", init, err)
		}

		var decoded InitWFn
		if err := json.Unmarshal(encoded, &decoded); err != nil {
			t.Fatalf("could not unmarshal %v: %v", init, err)
		}

		if decoded.Type != init.Type {
			t.Errorf("%v round-tripped with type %v", init, decoded.Type)
		}
		if decoded.Config != init.Config {
			t.Errorf("%v round-tripped with configuration %v", init,
				decoded.Config)
		}
		if decoded.InitWFn() == nil {
			t.Errorf("unmarshalled %v has no InitWFn", init)
		}
	}
}
