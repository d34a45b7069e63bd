package ir

import "github.com/opdot/opdot/pkg/errors"

// Validate checks the structural invariants the exporter relies on:
//
//   - every instruction has a non-empty name
//   - every block in a region has a non-empty, region-unique name
//   - every value (block argument or instruction result) is defined once
//   - block successors resolve to blocks of the same region
//   - within a block, a use of a value defined in that block comes after
//     its definition (definition-before-use in the single forward pass)
//
// Cross-block dominance is not checked; the exporter's binding table catches
// any remaining out-of-order use at export time.
func Validate(m *Module) error {
	v := &validator{defined: map[ValueID]bool{}}
	for _, r := range m.Regions {
		if err := v.collectRegion(r); err != nil {
			return err
		}
	}
	for _, r := range m.Regions {
		if err := v.checkRegion(r); err != nil {
			return err
		}
	}
	return nil
}

type validator struct {
	defined map[ValueID]bool
}

// collectRegion records every value definition, rejecting duplicates.
func (v *validator) collectRegion(r *Region) error {
	seen := map[string]bool{}
	for _, b := range r.Blocks {
		if b.Name == "" {
			return errors.New(errors.ErrCodeInvalidModule, "block with empty name")
		}
		if seen[b.Name] {
			return errors.New(errors.ErrCodeInvalidModule, "duplicate block name %q in region", b.Name)
		}
		seen[b.Name] = true

		for _, arg := range b.Args {
			if err := v.define(arg); err != nil {
				return err
			}
		}
		for _, in := range b.Instructions {
			if in.Name == "" {
				return errors.New(errors.ErrCodeInvalidModule, "instruction with empty name in block %q", b.Name)
			}
			for _, res := range in.Results {
				if err := v.define(res); err != nil {
					return err
				}
			}
			for _, nested := range in.Regions {
				if err := v.collectRegion(nested); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (v *validator) define(id ValueID) error {
	if id == "" {
		return errors.New(errors.ErrCodeInvalidModule, "value with empty id")
	}
	if v.defined[id] {
		return errors.New(errors.ErrCodeInvalidModule, "value %q defined more than once", id)
	}
	v.defined[id] = true
	return nil
}

// checkRegion verifies operand references, successor resolution, and
// in-block definition order.
func (v *validator) checkRegion(r *Region) error {
	for _, b := range r.Blocks {
		for _, succ := range b.Successors {
			if r.FindBlock(succ) == nil {
				return errors.New(errors.ErrCodeInvalidModule,
					"block %q lists unknown successor %q", b.Name, succ)
			}
		}

		local := map[ValueID]int{}
		for _, arg := range b.Args {
			local[arg] = -1
		}
		for i, in := range b.Instructions {
			for _, res := range in.Results {
				local[res] = i
			}
		}
		for i, in := range b.Instructions {
			for _, op := range in.Operands {
				if !v.defined[op] {
					return errors.New(errors.ErrCodeInvalidModule,
						"instruction %q uses undefined value %q", in.Name, op)
				}
				if pos, ok := local[op]; ok && pos >= i {
					return errors.New(errors.ErrCodeInvalidModule,
						"instruction %q uses value %q before its definition", in.Name, op)
				}
			}
			for _, nested := range in.Regions {
				if err := v.checkRegion(nested); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
