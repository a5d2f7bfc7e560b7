package transform

// Search inputs are small tagged unions, one per field domain. They carry a
// UI selection's semantic class through the clause round-trip: "all
// unreleased versions" regenerates as the unreleasedVersions() function, not
// as the literal list it happened to expand to.

// Form parameter conventions. Multi-valued parameters arrive either as
// sentinel values or as "type:value" tokens; anything unrecognized is
// silently dropped so stale or hand-crafted URLs never break the form.
const (
	noSelectionValue   = "-1"
	allUnreleasedValue = "-2"
	allReleasedValue   = "-3"

	idTokenPrefix    = "id:"
	userTokenPrefix  = "user:"
	groupTokenPrefix = "group:"

	currentUserToken = "current"
	emptyToken       = "empty"
)

// JQL function names the transformers understand. Unknown functions are
// ignored during population and fail the form-fit check.
const (
	FuncCurrentUser        = "currentUser"
	FuncMembersOf          = "membersOf"
	FuncReleasedVersions   = "releasedVersions"
	FuncUnreleasedVersions = "unreleasedVersions"
)

// VersionInputKind tags a VersionInput.
type VersionInputKind int

const (
	VersionNamed VersionInputKind = iota
	VersionByID
	VersionNone
	VersionAllReleased
	VersionAllUnreleased
)

// VersionInput is one version-field selection.
type VersionInput struct {
	Kind VersionInputKind
	Name string // VersionNamed
	ID   int64  // VersionByID
}

// ComponentInputKind tags a ComponentInput.
type ComponentInputKind int

const (
	ComponentNamed ComponentInputKind = iota
	ComponentByID
	ComponentNone
)

// ComponentInput is one component-field selection.
type ComponentInput struct {
	Kind ComponentInputKind
	Name string
	ID   int64
}

// UserInputKind tags a UserInput.
type UserInputKind int

const (
	UserNamed UserInputKind = iota
	UserGroup
	UserCurrent
	UserEmpty
)

// UserInput is one user-field selection (assignee, reporter).
type UserInput struct {
	Kind  UserInputKind
	Value string // username for UserNamed, group name for UserGroup
}

// ProjectInputKind tags a ProjectInput.
type ProjectInputKind int

const (
	ProjectByID ProjectInputKind = iota
	ProjectByKey
)

// ProjectInput is one project selection.
type ProjectInput struct {
	Kind ProjectInputKind
	ID   int64
	Key  string
}

// DateInput is a date field's bounds as entered: raw strings, absolute or
// relative. Parsing happens at validation time so the original spelling
// survives the round-trip into JQL.
type DateInput struct {
	After  string
	Before string
}

// IsZero reports whether neither bound is set.
func (d DateInput) IsZero() bool { return d.After == "" && d.Before == "" }

// RatioInput is a numeric range field's bounds (work ratio percentages),
// kept raw for the same reason as DateInput.
type RatioInput struct {
	Min string
	Max string
}

// IsZero reports whether neither bound is set.
func (r RatioInput) IsZero() bool { return r.Min == "" && r.Max == "" }
