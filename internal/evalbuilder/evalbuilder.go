package evalbuilder

import (
	"fmt"

	"github.com/tessera-chess/tessera/pkg/common"
	"github.com/tessera-chess/tessera/pkg/engine"
	"github.com/tessera-chess/tessera/pkg/eval"
	"github.com/tessera-chess/tessera/pkg/eval/material"
)

// Get returns a constructor of the named evaluation, one instance per search thread.
func Get(key string) (func() engine.Evaluator, error) {
	switch key {
	case "", "tapered":
		return func() engine.Evaluator {
			return eval.NewEvaluationService(common.Attacks())
		}, nil
	case "material":
		return func() engine.Evaluator {
			return material.NewEvaluationService()
		}, nil
	}
	return nil, fmt.Errorf("bad eval %v", key)
}
