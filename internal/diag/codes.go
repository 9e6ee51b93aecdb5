// Package diag defines the structured diagnostic records emitted by the
// type-checker core. Diagnostics are data, never rendered text: rendering,
// rule dispatch and lint authoring are external collaborators' concern.
// This package plays the same role AILANG's internal/errors package plays
// for its own compiler phases, adapted from a numbered PAR###/TC### taxonomy
// to the core's stable
// kebab-case LintId codes.
package diag

// Code is a stable diagnostic identifier, analogous to a rule code. Codes
// never change meaning once published; new diagnostic kinds get new codes.
type Code string

const (
	// Subscript errors
	IndexOutOfBounds           Code = "index-out-of-bounds"
	SliceStepSizeZero          Code = "slice-step-size-zero"
	NotSubscriptable           Code = "not-subscriptable"
	DunderCallError            Code = "dunder-call-error"
	DunderPossiblyUnbound      Code = "dunder-possibly-unbound"
	CallNonCallable            Code = "call-non-callable"
	PossiblyMissingImplicitCall Code = "possibly-missing-implicit-call"
	NonGenericAliasSubscripted Code = "non-generic-type-alias-subscripted"
	InvalidLegacyGenericArg    Code = "invalid-legacy-generic-argument"
	DuplicateTypeVariable      Code = "duplicate-type-variable"
	InvalidGenericClass        Code = "invalid-generic-class"

	// Call errors
	PossiblyNotCallable Code = "possibly-not-callable"
	BindingError        Code = "binding-error"

	// Assignment / structural errors
	InvalidAssignment      Code = "invalid-assignment"
	InvalidArgumentType    Code = "invalid-argument-type"
	DeclarationConflict    Code = "declaration-conflict"
	InvalidKeyOnTypedDict  Code = "invalid-key-on-typed-dict"
	MissingRequiredTDKey   Code = "missing-required-typed-dict-key"
	ReadOnlyFieldWritten   Code = "read-only-field-written"
	InvalidKeyType         Code = "invalid-key-type"

	// Resolver diagnostics (boundness is normally a flag, not a diagnostic,
	// but possibly-unbound uses of a place still get one structured record
	// so external consumers can point at the exact use).
	PossiblyUnboundPlace Code = "possibly-unbound-place"
	UnboundPlace         Code = "unbound-place"

	// Unpacking errors
	UnpackLengthMismatch Code = "unpack-length-mismatch"
)

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// CodeInfo describes a diagnostic code's default phase and category, the
// same registry role internal/errors.ErrorRegistry plays for AILANG's codes.
type CodeInfo struct {
	Code     Code
	Phase    string
	Category string
	Default  Severity
}

// Registry maps every known Code to its descriptive metadata.
var Registry = map[Code]CodeInfo{
	IndexOutOfBounds:            {IndexOutOfBounds, "subscript", "bounds", SeverityError},
	SliceStepSizeZero:           {SliceStepSizeZero, "subscript", "bounds", SeverityError},
	NotSubscriptable:            {NotSubscriptable, "subscript", "type", SeverityError},
	DunderCallError:             {DunderCallError, "subscript", "dunder", SeverityError},
	DunderPossiblyUnbound:       {DunderPossiblyUnbound, "subscript", "dunder", SeverityWarning},
	CallNonCallable:             {CallNonCallable, "call", "type", SeverityError},
	PossiblyMissingImplicitCall: {PossiblyMissingImplicitCall, "subscript", "dunder", SeverityWarning},
	NonGenericAliasSubscripted:  {NonGenericAliasSubscripted, "subscript", "generic", SeverityError},
	InvalidLegacyGenericArg:     {InvalidLegacyGenericArg, "subscript", "generic", SeverityError},
	DuplicateTypeVariable:       {DuplicateTypeVariable, "subscript", "generic", SeverityError},
	InvalidGenericClass:         {InvalidGenericClass, "subscript", "generic", SeverityError},
	PossiblyNotCallable:         {PossiblyNotCallable, "call", "type", SeverityWarning},
	BindingError:                {BindingError, "call", "argument", SeverityError},
	InvalidAssignment:           {InvalidAssignment, "assignment", "type", SeverityError},
	InvalidArgumentType:         {InvalidArgumentType, "assignment", "type", SeverityError},
	DeclarationConflict:         {DeclarationConflict, "resolver", "declaration", SeverityWarning},
	InvalidKeyOnTypedDict:       {InvalidKeyOnTypedDict, "structural", "typed-dict", SeverityError},
	MissingRequiredTDKey:        {MissingRequiredTDKey, "structural", "typed-dict", SeverityError},
	ReadOnlyFieldWritten:        {ReadOnlyFieldWritten, "structural", "typed-dict", SeverityError},
	InvalidKeyType:              {InvalidKeyType, "structural", "typed-dict", SeverityError},
	PossiblyUnboundPlace:        {PossiblyUnboundPlace, "resolver", "boundness", SeverityWarning},
	UnboundPlace:                {UnboundPlace, "resolver", "boundness", SeverityError},
	UnpackLengthMismatch:        {UnpackLengthMismatch, "infer", "unpack", SeverityError},
}

// GetCodeInfo looks up a code's registry entry.
func GetCodeInfo(c Code) (CodeInfo, bool) {
	info, ok := Registry[c]
	return info, ok
}
