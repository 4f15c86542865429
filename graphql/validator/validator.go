package validator

import (
	"fmt"

	"github.com/graphkit-go/graphkit/graphql/ast"
	"github.com/graphkit-go/graphkit/graphql/schema"
)

// Kind categorizes the sort of problem a diagnostic describes.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
)

type Location struct {
	Line   int
	Column int
}

type Error struct {
	Message   string
	Locations []Location
	Kind      Kind

	// If a validator is unable to perform its job due to an error unrelated to its purpose, it will
	// emit a secondary error. Secondary errors are always errors that should be caught by other
	// validators, so if there are any primary errors, secondary errors are discarded as they should
	// all be duplicates. If a secondary error makes it out of validation, there's probably a
	// mistake in one of the validators.
	isSecondary bool
}

func (err *Error) Error() string {
	return err.Message
}

func locationsOf(node ast.Node) []Location {
	if node == nil {
		return nil
	}
	pos := node.Position()
	return []Location{{Line: pos.Line, Column: pos.Column}}
}

func newError(node ast.Node, message string, args ...interface{}) *Error {
	return &Error{
		Message:   fmt.Sprintf(message, args...),
		Locations: locationsOf(node),
		Kind:      KindValidation,
	}
}

func newSecondaryError(node ast.Node, message string, args ...interface{}) *Error {
	return &Error{
		Message:     fmt.Sprintf(message, args...),
		Locations:   locationsOf(node),
		Kind:        KindValidation,
		isSecondary: true,
	}
}

// newErrorWithNodes reports a single violation implicated by multiple nodes, e.g. two fields that
// conflict with each other.
func newErrorWithNodes(nodes []ast.Node, message string, args ...interface{}) *Error {
	var locations []Location
	for _, node := range nodes {
		locations = append(locations, locationsOf(node)...)
	}
	return &Error{
		Message:   fmt.Sprintf(message, args...),
		Locations: locations,
		Kind:      KindValidation,
	}
}

// documentFragments indexes doc's fragment definitions by name, the starting point for several
// rules that need to resolve a *ast.FragmentSpread back to its declaration.
func documentFragments(doc *ast.Document) map[string]*ast.FragmentDefinition {
	ret := map[string]*ast.FragmentDefinition{}
	for _, def := range doc.Definitions {
		if def, ok := def.(*ast.FragmentDefinition); ok {
			ret[def.Name.Name] = def
		}
	}
	return ret
}

// Rule implements a single validation concern, returning every violation it finds within the
// document.
type Rule func(*ast.Document, *schema.Schema, schema.FeatureSet, *TypeInfo) []*Error

// StandardRules is the full set of validation rules run by ValidateDocument when no explicit rule
// list is given.
var StandardRules = []Rule{
	validateDocument,
	validateOperations,
	validateFields,
	validateArguments,
	validateFragments,
	validateValues,
	validateDirectives,
	validateVariables,
}

// Options customizes how ValidateDocumentWithOptions runs validation.
type Options struct {
	// EnabledFeatures gates which RequiredFeatures-tagged schema members are considered visible
	// during validation.
	EnabledFeatures schema.FeatureSet

	// Rules overrides the set of rules to run. If nil, StandardRules is used.
	Rules []Rule

	// FailFast stops running rules as soon as one produces a primary (non-secondary) error,
	// instead of collecting every violation in the document.
	FailFast bool
}

// ValidateDocument runs the standard validation rules against doc, gated by the given enabled
// features.
func ValidateDocument(doc *ast.Document, s *schema.Schema, enabledFeatures schema.FeatureSet) []*Error {
	return ValidateDocumentWithOptions(doc, s, &Options{EnabledFeatures: enabledFeatures})
}

// ValidateDocumentWithOptions runs validation with full control over the rule set and fail-fast
// behavior.
func ValidateDocumentWithOptions(doc *ast.Document, s *schema.Schema, opts *Options) []*Error {
	if opts == nil {
		opts = &Options{}
	}
	rules := opts.Rules
	if rules == nil {
		rules = StandardRules
	}

	typeInfo := NewTypeInfo(doc, s)

	var errs []*Error
	for _, f := range rules {
		ruleErrs := f(doc, s, opts.EnabledFeatures, typeInfo)
		errs = append(errs, ruleErrs...)
		if opts.FailFast {
			for _, err := range ruleErrs {
				if !err.isSecondary {
					return filterPrimary(errs)
				}
			}
		}
	}

	return filterPrimary(errs)
}

func filterPrimary(errs []*Error) []*Error {
	var primary []*Error
	for _, err := range errs {
		if !err.isSecondary {
			primary = append(primary, err)
		}
	}
	if len(primary) > 0 {
		return primary
	}
	return errs
}
