package bridge

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type record struct {
	calls []string
}

func recordPatch(name string, reads, writes []Section) Patch[*record] {
	return Patch[*record]{
		Name:   name,
		Reads:  reads,
		Writes: writes,
		Apply: func(r *record) error {
			r.calls = append(r.calls, name)
			return nil
		},
	}
}

func TestPipelineValidate(t *testing.T) {
	tests := []struct {
		name    string
		patches []Patch[*record]
		wantErr bool
	}{
		{
			name: "reader_after_writer",
			patches: []Patch[*record]{
				recordPatch("loaders", nil, []Section{SectionLoaders}),
				recordPatch("hashing", []Section{SectionLoaders}, []Section{SectionOutput}),
			},
		},
		{
			name: "reader_before_writer",
			patches: []Patch[*record]{
				recordPatch("hashing", []Section{SectionLoaders}, []Section{SectionOutput}),
				recordPatch("loaders", nil, []Section{SectionLoaders}),
			},
			wantErr: true,
		},
		{
			name: "duplicate_name",
			patches: []Patch[*record]{
				recordPatch("define", nil, []Section{SectionDefine}),
				recordPatch("define", nil, []Section{SectionDefine}),
			},
			wantErr: true,
		},
		{
			name: "independent_sections_any_order",
			patches: []Patch[*record]{
				recordPatch("define", nil, []Section{SectionDefine}),
				recordPatch("entry", nil, []Section{SectionEntry}),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPipeline(tt.patches...).Validate()
			if tt.wantErr && !errors.Is(err, ErrPatchOrder) {
				t.Errorf("Validate error = %v, want ErrPatchOrder", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate error: %v", err)
			}
		})
	}
}

func TestPipelineApplyInOrder(t *testing.T) {
	p := NewPipeline(
		recordPatch("a", nil, []Section{"x"}),
		recordPatch("b", []Section{"x"}, []Section{"y"}),
	).Add(recordPatch("c", []Section{"y"}, nil))

	r := &record{}
	if err := p.Apply(r); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, r.calls); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, p.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineApplyStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	r := &record{}
	err := NewPipeline(
		Patch[*record]{Name: "fail", Apply: func(*record) error { return boom }},
		recordPatch("after", nil, nil),
	).Apply(r)
	if !errors.Is(err, boom) {
		t.Errorf("Apply error = %v, want boom", err)
	}
	if len(r.calls) != 0 {
		t.Errorf("patches ran after failure: %v", r.calls)
	}
}

func TestPipelineApplyRejectsInvalidOrder(t *testing.T) {
	r := &record{}
	err := NewPipeline(
		recordPatch("hashing", []Section{SectionLoaders}, nil),
		recordPatch("loaders", nil, []Section{SectionLoaders}),
	).Apply(r)
	if !errors.Is(err, ErrPatchOrder) {
		t.Errorf("Apply error = %v, want ErrPatchOrder", err)
	}
	if len(r.calls) != 0 {
		t.Error("no patch should run when the order is invalid")
	}
}
