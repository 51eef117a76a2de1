package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/rs/zerolog"

	"github.com/rushteam/bagrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("rctx", cel.DynType),
			cel.CrossTypeNumericComparisons(true),
		)
	})
	return celEnv, celEnvErr
}

// Rule 是基于 CEL (Common Expression Language) 的物品规则过滤器，只保留表达式为 true 的物品。
// 表达式在构造时编译一次，cel.Program 可被多个请求并发使用。
//
// 可用变量：
//   - item.id / item.name / item.vendor / item.category / item.tags
//   - item.price / item.original_value / item.lat / item.lng / item.distance（仅附近推荐）
//   - rctx.user_id / rctx.strategy / rctx.params
//
// 示例：
//   - `item.price <= 2000`
//   - `item.category != "restaurant" && "healthy" in item.tags`
//   - `!has(rctx.params.max_price) || item.price <= rctx.params.max_price`
type Rule struct {
	expr   string
	prg    cel.Program
	logger zerolog.Logger
}

// NewRule 编译规则表达式；空表达式返回 nil（不过滤）。
func NewRule(expr string, logger zerolog.Logger) (*Rule, error) {
	if expr == "" {
		return nil, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile rule %q: %w", expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program rule %q: %w", expr, err)
	}

	return &Rule{expr: expr, prg: prg, logger: logger}, nil
}

func (r *Rule) Name() string { return "filter.rule" }

// Expr 返回原始表达式。
func (r *Rule) Expr() string { return r.expr }

// Match 执行表达式，返回物品是否满足规则。
func (r *Rule) Match(rctx *core.RecommendContext, item core.Item) (bool, error) {
	out, _, err := r.prg.Eval(map[string]any{
		"item": itemInput(item),
		"rctx": contextInput(rctx),
	})
	if err != nil {
		return false, fmt.Errorf("eval rule: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule must return boolean, got %T", out.Value())
	}
	return result, nil
}

// ShouldFilter 实现 Filter 接口；表达式求值失败的物品被过滤，不影响其他物品。
func (r *Rule) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item core.Item) (bool, error) {
	ok, err := r.Match(rctx, item)
	if err != nil {
		r.logger.Debug().Err(err).Str("item_id", item.ID).Str("rule", r.expr).Msg("rule evaluation failed, item dropped")
		return true, nil
	}
	return !ok, nil
}

func itemInput(item core.Item) map[string]any {
	tags := make([]string, len(item.Tags))
	copy(tags, item.Tags)

	in := map[string]any{
		"id":             item.ID,
		"name":           item.Name,
		"vendor":         item.Vendor,
		"price":          item.Price,
		"original_value": item.OriginalValue,
		"category":       item.Category,
		"tags":           tags,
		"lat":            item.Location.Lat,
		"lng":            item.Location.Lng,
	}
	if item.Distance != nil {
		in["distance"] = *item.Distance
	}
	return in
}

func contextInput(rctx *core.RecommendContext) map[string]any {
	if rctx == nil {
		return map[string]any{"params": map[string]any{}}
	}
	params := rctx.Params
	if params == nil {
		params = map[string]any{}
	}
	return map[string]any{
		"user_id":  rctx.UserID,
		"strategy": string(rctx.Strategy),
		"params":   params,
	}
}

var _ Filter = (*Rule)(nil)
