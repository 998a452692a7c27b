package patchlog

import (
	"context"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

type Noop struct{}

func NewNoop() *Noop                                       { return &Noop{} }
func (n *Noop) Mirror(context.Context, patch.Commit) error { return nil }
func (n *Noop) Close() error                               { return nil }
