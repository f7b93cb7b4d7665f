package discount

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name      string
		rule      *RuleConfig
		qty       int64
		lineTotal Money
		testValue Money
		want      Money
	}{
		{
			name: "nil rule contributes nothing",
			qty:  2, lineTotal: 1000, testValue: 1000,
			want: 0,
		},
		{
			name: "disabled rule contributes nothing",
			rule: &RuleConfig{Name: "off", Enabled: false, Type: RuleTypePercentage, Value: 10},
			qty:  2, lineTotal: 1000, testValue: 1000,
			want: 0,
		},
		{
			name: "percentage of full line",
			rule: &RuleConfig{Name: "ten", Enabled: true, Type: RuleTypePercentage, Value: 10},
			qty:  5, lineTotal: 500, testValue: 500,
			want: 50,
		},
		{
			name: "fixed per unit",
			rule: &RuleConfig{Name: "flat", Enabled: true, Type: RuleTypeFixed, Value: 20},
			qty:  12, lineTotal: 1200, testValue: 1200,
			want: 240,
		},
		{
			name: "fixed applied once",
			rule: &RuleConfig{Name: "flat-once", Enabled: true, Type: RuleTypeFixed, Value: 20, ApplyFixedOnce: true},
			qty:  12, lineTotal: 1200, testValue: 1200,
			want: 20,
		},
		{
			name: "condition min inclusive",
			rule: &RuleConfig{Name: "min", Enabled: true, Type: RuleTypePercentage, Value: 10, ConditionMin: int64Ptr(400)},
			qty:  4, lineTotal: 400, testValue: 400,
			want: 40,
		},
		{
			name: "below condition min",
			rule: &RuleConfig{Name: "min", Enabled: true, Type: RuleTypePercentage, Value: 10, ConditionMin: int64Ptr(400)},
			qty:  3, lineTotal: 399, testValue: 399,
			want: 0,
		},
		{
			name: "condition max inclusive",
			rule: &RuleConfig{Name: "max", Enabled: true, Type: RuleTypePercentage, Value: 10, ConditionMax: int64Ptr(500)},
			qty:  5, lineTotal: 500, testValue: 500,
			want: 50,
		},
		{
			name: "above condition max",
			rule: &RuleConfig{Name: "max", Enabled: true, Type: RuleTypePercentage, Value: 10, ConditionMax: int64Ptr(500)},
			qty:  6, lineTotal: 600, testValue: 600,
			want: 0,
		},
		{
			name: "quantity tested independently of line total",
			rule: &RuleConfig{Name: "qty", Enabled: true, Type: RuleTypeFixed, Value: 5, ConditionMin: int64Ptr(10)},
			qty:  10, lineTotal: 1000, testValue: 10,
			want: 50,
		},
		{
			name: "fixed discount clamped to line total",
			rule: &RuleConfig{Name: "big", Enabled: true, Type: RuleTypeFixed, Value: 900, ApplyFixedOnce: true},
			qty:  1, lineTotal: 300, testValue: 300,
			want: 300,
		},
		{
			name: "zero quantity yields nothing per unit",
			rule: &RuleConfig{Name: "flat", Enabled: true, Type: RuleTypeFixed, Value: 20},
			qty:  0, lineTotal: 0, testValue: 0,
			want: 0,
		},
		{
			name: "negative line total never produces a negative discount",
			rule: &RuleConfig{Name: "flat", Enabled: true, Type: RuleTypeFixed, Value: 20, ApplyFixedOnce: true},
			qty:  1, lineTotal: -100, testValue: -100,
			want: 0,
		},
		{
			name: "unknown rule type contributes nothing",
			rule: &RuleConfig{Name: "odd", Enabled: true, Type: RuleType("bogus"), Value: 10},
			qty:  1, lineTotal: 100, testValue: 100,
			want: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.rule, tc.qty, tc.lineTotal, tc.testValue)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	rule := &RuleConfig{Name: "ten", Enabled: true, Type: RuleTypePercentage, Value: 10}
	first := Evaluate(rule, 5, 500, 500)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Evaluate(rule, 5, 500, 500))
	}
	require.Equal(t, RuleConfig{Name: "ten", Enabled: true, Type: RuleTypePercentage, Value: 10}, *rule)
}

func TestRuleConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		rule    *RuleConfig
		wantErr bool
	}{
		{"nil rule is an empty slot", nil, false},
		{"valid percentage", &RuleConfig{Name: "ok", Type: RuleTypePercentage, Value: 15}, false},
		{"valid fixed", &RuleConfig{Name: "ok", Type: RuleTypeFixed, Value: 500}, false},
		{"missing name", &RuleConfig{Type: RuleTypeFixed, Value: 1}, true},
		{"unknown type", &RuleConfig{Name: "x", Type: RuleType("half"), Value: 1}, true},
		{"negative value", &RuleConfig{Name: "x", Type: RuleTypeFixed, Value: -1}, true},
		{"percentage above 100", &RuleConfig{Name: "x", Type: RuleTypePercentage, Value: 101}, true},
		{"inverted bounds", &RuleConfig{Name: "x", Type: RuleTypeFixed, Value: 1, ConditionMin: int64Ptr(10), ConditionMax: int64Ptr(5)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rule.Validate()
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidRule)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
