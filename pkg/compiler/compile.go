package compiler

import (
	"github.com/pkg/errors"

	"lxc/pkg/irgen"
)

// Compile runs the whole pipeline over src. name identifies the source in
// the module and in wrapped errors. The typed stage error stays reachable
// through errors.As.
func Compile(src, name string) (*irgen.Builder, error) {
	tokens, err := Lex(src)
	if err != nil {
		logger.Error("lex failed", "file", name, "err", err)
		return nil, errors.Wrapf(err, "lex %s", name)
	}

	file, err := Parse(tokens, src)
	if err != nil {
		logger.Error("parse failed", "file", name, "err", err)
		return nil, errors.Wrapf(err, "parse %s", name)
	}

	b := irgen.NewBuilder(name)
	if err := Generate(file, b); err != nil {
		logger.Error("codegen failed", "file", name, "err", err)
		return nil, errors.Wrapf(err, "codegen %s", name)
	}
	return b, nil
}
