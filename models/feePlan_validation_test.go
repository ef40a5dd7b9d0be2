package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSumHeads(t *testing.T) {
	cases := []struct {
		name  string
		heads []NewFeeHead
		want  string
	}{
		{"empty", nil, "0"},
		{"single", []NewFeeHead{{Name: "Tuition", Amount: decimal.NewFromInt(50000)}}, "50000"},
		{
			"multiple",
			[]NewFeeHead{
				{Name: "Tuition", Amount: decimal.NewFromInt(50000)},
				{Name: "Library", Amount: decimal.NewFromInt(5000)},
			},
			"55000",
		},
		{
			"fractional paise survive exactly",
			[]NewFeeHead{
				{Name: "A", Amount: decimal.RequireFromString("0.1")},
				{Name: "B", Amount: decimal.RequireFromString("0.2")},
			},
			"0.3",
		},
		{
			"zero amount heads allowed",
			[]NewFeeHead{
				{Name: "Tuition", Amount: decimal.NewFromInt(40000)},
				{Name: "Scholarship Waiver", Amount: decimal.Zero},
			},
			"40000",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SumHeads(tc.heads)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("SumHeads = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestNewFeePlanValidateShape(t *testing.T) {
	valid := func() *NewFeePlan {
		return &NewFeePlan{
			Name:      "BSc Semester 1",
			Frequency: PayFrequencySemester,
			Heads: []NewFeeHead{
				{Name: "Tuition", Amount: decimal.NewFromInt(50000)},
			},
		}
	}

	cases := []struct {
		name    string
		mutate  func(p *NewFeePlan)
		wantErr bool
	}{
		{"valid plan", func(p *NewFeePlan) {}, false},
		{"blank name", func(p *NewFeePlan) { p.Name = "  " }, true},
		{"invalid frequency", func(p *NewFeePlan) { p.Frequency = "Weekly" }, true},
		{"no heads", func(p *NewFeePlan) { p.Heads = nil }, true},
		{"blank head name", func(p *NewFeePlan) { p.Heads[0].Name = "" }, true},
		{"negative head amount", func(p *NewFeePlan) { p.Heads[0].Amount = decimal.NewFromInt(-1) }, true},
		{"zero head amount", func(p *NewFeePlan) { p.Heads[0].Amount = decimal.Zero }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := valid()
			tc.mutate(plan)
			err := plan.validateShape()
			if (err != nil) != tc.wantErr {
				t.Fatalf("validateShape error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
