package driver

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/tabctl/page"
)

// evalArgs turns the surface's optional single argument into rod's
// argument list. A nil arg means the remote function takes nothing.
func evalArgs(arg interface{}) []interface{} {
	if arg == nil {
		return nil
	}
	return []interface{}{arg}
}

// Evaluate runs expression in the page and returns its JSON-serialized
// result. Promises are awaited before serialization.
func (d *Driver) Evaluate(ctx context.Context, expression string, arg interface{}) (interface{}, error) {
	res, err := d.rod.Context(ctx).Evaluate(rod.Eval(expression, evalArgs(arg)...).ByPromise())
	if err != nil {
		return nil, fmt.Errorf("driver: evaluate: %w", err)
	}
	return res.Value.Val(), nil
}

// EvaluateHandle runs expression and returns a handle to the resulting
// object instead of serializing it.
func (d *Driver) EvaluateHandle(ctx context.Context, expression string, arg interface{}) (page.JSHandle, error) {
	res, err := d.rod.Context(ctx).Evaluate(rod.Eval(expression, evalArgs(arg)...).ByObject())
	if err != nil {
		return nil, fmt.Errorf("driver: evaluateHandle: %w", err)
	}
	return &jsHandle{d: d, obj: res}, nil
}

// EvalOnSelector runs expression with the first element matching
// selector bound as this.
func (d *Driver) EvalOnSelector(ctx context.Context, selector, expression string, arg interface{}) (interface{}, error) {
	el, err := d.elementFor(ctx, selector)
	if err != nil {
		return nil, err
	}
	res, err := el.Eval(expression, evalArgs(arg)...)
	if err != nil {
		return nil, fmt.Errorf("driver: evalOnSelector %q: %w", selector, err)
	}
	return res.Value.Val(), nil
}

// EvalOnSelectorAll runs expression with the array of every matching
// element as its first parameter.
func (d *Driver) EvalOnSelectorAll(ctx context.Context, selector, expression string, arg interface{}) (interface{}, error) {
	all := append([]interface{}{selector, expression}, evalArgs(arg)...)
	res, err := d.rod.Context(ctx).Eval(`(sel, fnSrc, ...rest) => {
		const fn = new Function("return (" + fnSrc + ")")();
		return fn.call(null, Array.from(document.querySelectorAll(sel)), ...rest);
	}`, all...)
	if err != nil {
		return nil, fmt.Errorf("driver: evalOnSelectorAll %q: %w", selector, err)
	}
	return res.Value.Val(), nil
}
