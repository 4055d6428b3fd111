package walker

import (
	"errors"
	"testing"
)

func TestRegistryListsAllVariants(t *testing.T) {
	infos := List()
	if len(infos) != 5 {
		t.Fatalf("List() returned %d types, expected 5", len(infos))
	}

	for i := 1; i < len(infos); i++ {
		if infos[i-1].Kind >= infos[i].Kind {
			t.Errorf("List() not sorted: %s before %s", infos[i-1].Kind, infos[i].Kind)
		}
	}

	for _, k := range []Kind{KindUnit, KindRandomDistance, KindStraight, KindDirectionalBias, KindMemory} {
		if !Exists(k) {
			t.Errorf("Exists(%s) = false", k)
		}
	}
}

func TestRegistryCreate(t *testing.T) {
	for _, info := range List() {
		w, err := Create(Spec{Kind: info.Kind})
		if err != nil {
			t.Errorf("Create(%s) failed: %v", info.Kind, err)
			continue
		}
		if w.Kind() != info.Kind {
			t.Errorf("Create(%s) built a %s", info.Kind, w.Kind())
		}
	}
}

func TestRegistryCreateBiasWeights(t *testing.T) {
	w, err := Create(Spec{Kind: KindDirectionalBias, Weights: []float64{1, 3, 0, 0, 0}})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	bias, ok := w.(*DirectionalBias)
	if !ok {
		t.Fatalf("Create() returned %T, expected *DirectionalBias", w)
	}
	weights := bias.Weights()
	if !near(weights[0], 0.25) || !near(weights[1], 0.75) {
		t.Errorf("Weights() = %v, expected [0.25 0.75 0 0 0]", weights)
	}
}

func TestRegistryRejectsBadSpecs(t *testing.T) {
	if _, err := Create(Spec{Kind: "TeleportWalker"}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("unknown kind error = %v, expected ErrUnknownKind", err)
	}
	if _, err := Create(Spec{Kind: KindUnit, Weights: []float64{1, 1, 1, 1, 1}}); !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("weights on UnitWalker error = %v, expected ErrInvalidWeights", err)
	}
	w, err := Create(Spec{Kind: KindDirectionalBias, Weights: []float64{0, 0, 0, 0, 0}})
	if !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("zero weights error = %v, expected ErrInvalidWeights", err)
	}
	if w != nil {
		t.Errorf("Create() returned non-nil walker %v alongside an error", w)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register() with a duplicate kind did not panic")
		}
	}()
	Register(KindUnit, "duplicate", func(Spec) (Walker, error) { return NewUnit(), nil })
}
