package filter

import (
	"context"
	"slices"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rushteam/bagrec/core"
)

func TestNewRule(t *testing.T) {
	r, err := NewRule("", zerolog.Nop())
	if err != nil || r != nil {
		t.Fatalf("NewRule(\"\") = %v, %v; want nil, nil", r, err)
	}
	if _, err := NewRule("item.price <=", zerolog.Nop()); err == nil {
		t.Fatal("NewRule() with syntax error should fail")
	}
}

func TestRuleFilter(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		params map[string]any
		want   []string
	}{
		{name: "price cap", expr: "item.price <= 2000", want: []string{"bag1", "bag4", "bag5"}},
		{name: "category and tag", expr: `item.category == "grocery" && "healthy" in item.tags`, want: []string{"bag2", "bag4"}},
		{name: "discount ratio", expr: "item.price * 3.0 <= item.original_value", want: []string{"bag1", "bag3", "bag5"}},
		{name: "param present", expr: "!has(rctx.params.max_price) || item.price <= rctx.params.max_price", params: map[string]any{"max_price": 1500}, want: []string{"bag1", "bag5"}},
		{name: "param absent", expr: "!has(rctx.params.max_price) || item.price <= rctx.params.max_price", want: []string{"bag1", "bag2", "bag3", "bag4", "bag5"}},
		{name: "missing field drops every item", expr: "item.distance < 1.0", want: []string{}},
		{name: "non boolean drops every item", expr: "item.price", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := NewRule(tt.expr, zerolog.Nop())
			if err != nil {
				t.Fatalf("NewRule() error = %v", err)
			}
			node := &FilterNode{Filters: []Filter{rule}, Logger: zerolog.Nop()}
			rctx := &core.RecommendContext{Strategy: core.StrategyPopular, Params: tt.params}
			got, err := node.Process(context.Background(), rctx, bags())
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if !slices.Equal(itemIDs(got), tt.want) {
				t.Errorf("Process() = %v, want %v", itemIDs(got), tt.want)
			}
		})
	}
}

func TestRuleSeesDistance(t *testing.T) {
	rule, err := NewRule("item.distance < 1.0", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRule() error = %v", err)
	}
	near := bags()[0].WithDistance(0.2)
	far := bags()[1].WithDistance(1.6)

	if drop, _ := rule.ShouldFilter(context.Background(), nil, near); drop {
		t.Error("near item should be kept")
	}
	if drop, _ := rule.ShouldFilter(context.Background(), nil, far); !drop {
		t.Error("far item should be dropped")
	}
}
