// Package xerrors centralizes the sentinel-error and context-wrapping
// conventions shared by every tengraph package: each package still owns its
// own sentinel errors.New values, but uses Wrap/WrapNode/WrapNodef here to attach
// operator name, node id, and operand-fact context the way the teacher's
// per-package errorf helpers (matrix.matrixErrorf, builder.builderErrorf) do.
package xerrors

import "fmt"

// Wrap attaches an operation tag to err, preserving errors.Is/As via %w.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", op, err)
}

// WrapNode attaches operator name and node id context to err, the shape
// spec.md §7 requires ("operator name, node id, operand facts") for
// optimization-time failures.
func WrapNode(op, nodeID string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s(node=%s): %w", op, nodeID, err)
}

// WrapNodef is WrapNode with a formatted extra-context suffix.
func WrapNodef(op, nodeID, format string, args []any, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s(node=%s): %s: %w", op, nodeID, fmt.Sprintf(format, args...), err)
}
