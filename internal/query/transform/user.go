package transform

import (
	"net/url"
	"strings"

	"github.com/jqlkit/jqlkit/internal/query"
	"github.com/jqlkit/jqlkit/internal/query/rewrite"
	"github.com/jqlkit/jqlkit/internal/resolver"
)

// UserTransformer handles user-picker fields (assignee, reporter).
// Selections may name a user, a group (regenerating as membersOf), the
// current user (currentUser), or no user at all (EMPTY).
type UserTransformer struct {
	fieldID string
	names   query.ClauseNames
	users   resolver.Users
	key     Key[[]UserInput]
}

// NewUserTransformer returns a user transformer for the given field.
func NewUserTransformer(fieldID string, names query.ClauseNames, users resolver.Users) *UserTransformer {
	return &UserTransformer{
		fieldID: fieldID,
		names:   names,
		users:   users,
		key:     NewKey[[]UserInput](fieldID),
	}
}

func (t *UserTransformer) FieldID() string                { return t.fieldID }
func (t *UserTransformer) ClauseNames() query.ClauseNames { return t.names }
func (t *UserTransformer) Key() Key[[]UserInput]          { return t.key }

func (t *UserTransformer) PopulateFromParams(user string, h *Holder, params url.Values) {
	var inputs []UserInput
	for _, raw := range params[t.fieldID] {
		switch raw {
		case "":
			continue
		case currentUserToken:
			inputs = append(inputs, UserInput{Kind: UserCurrent})
		case emptyToken:
			inputs = append(inputs, UserInput{Kind: UserEmpty})
		default:
			if name, ok := strings.CutPrefix(raw, userTokenPrefix); ok {
				inputs = append(inputs, UserInput{Kind: UserNamed, Value: name})
				continue
			}
			if group, ok := strings.CutPrefix(raw, groupTokenPrefix); ok {
				inputs = append(inputs, UserInput{Kind: UserGroup, Value: group})
				continue
			}
			inputs = append(inputs, UserInput{Kind: UserNamed, Value: raw})
		}
	}
	if len(inputs) > 0 {
		Put(h, t.key, inputs)
	}
}

func (t *UserTransformer) PopulateFromQuery(user string, h *Holder, q *query.Query, ctx Context) {
	var inputs []UserInput
	for _, cl := range rewrite.CollectNamed(whereOf(q), t.names).Clauses {
		term, ok := cl.(*query.TerminalClause)
		if !ok {
			continue
		}
		for _, leaf := range flattenOperand(term.Operand()) {
			switch o := leaf.(type) {
			case query.EmptyOperand:
				inputs = append(inputs, UserInput{Kind: UserEmpty})
			case *query.FunctionOperand:
				switch {
				case strings.EqualFold(o.Name(), FuncCurrentUser) && len(o.Args()) == 0:
					inputs = append(inputs, UserInput{Kind: UserCurrent})
				case strings.EqualFold(o.Name(), FuncMembersOf) && len(o.Args()) == 1:
					inputs = append(inputs, UserInput{Kind: UserGroup, Value: o.Args()[0]})
				}
			case *query.SingleValueOperand:
				inputs = append(inputs, UserInput{Kind: UserNamed, Value: o.Text()})
			}
		}
	}
	if len(inputs) > 0 {
		Put(h, t.key, inputs)
	}
}

func (t *UserTransformer) Validate(user string, h *Holder, errs *ErrorCollection) {
	inputs, ok := Get(h, t.key)
	if !ok {
		return
	}
	for _, in := range inputs {
		switch in.Kind {
		case UserNamed:
			if !t.users.UserExists(in.Value) {
				errs.Add(t.fieldID, "jql.user.unknown")
			}
		case UserGroup:
			if !t.users.GroupExists(in.Value) {
				errs.Add(t.fieldID, "jql.group.unknown")
			}
		case UserCurrent:
			if user == "" {
				errs.Add(t.fieldID, "jql.user.anonymous")
			}
		}
	}
}

func (t *UserTransformer) SearchClause(user string, h *Holder) query.Clause {
	inputs, ok := Get(h, t.key)
	if !ok || len(inputs) == 0 {
		return nil
	}
	var operands []query.Operand
	for _, in := range inputs {
		switch in.Kind {
		case UserEmpty:
			operands = append(operands, query.Empty)
		case UserCurrent:
			operands = append(operands, query.NewFunctionOperand(FuncCurrentUser))
		case UserGroup:
			operands = append(operands, query.NewFunctionOperand(FuncMembersOf, in.Value))
		default:
			operands = append(operands, query.NewStringOperand(in.Value))
		}
	}
	return selectionClause(t.names.Primary(), operands)
}

func (t *UserTransformer) FitsFilterForm(user string, q *query.Query, ctx Context) bool {
	term, ok := singleSelectionClause(q, t.names)
	if !ok {
		return false
	}
	if term == nil {
		return true
	}
	for _, leaf := range flattenOperand(term.Operand()) {
		if !t.leafFits(user, leaf) {
			return false
		}
	}
	return true
}

func (t *UserTransformer) leafFits(user string, leaf query.Operand) bool {
	switch o := leaf.(type) {
	case query.EmptyOperand:
		return true
	case *query.FunctionOperand:
		switch {
		case strings.EqualFold(o.Name(), FuncCurrentUser):
			// currentUser() has no meaning for an anonymous viewer, so the
			// form cannot show it.
			return len(o.Args()) == 0 && user != ""
		case strings.EqualFold(o.Name(), FuncMembersOf):
			return len(o.Args()) == 1 && t.users.GroupExists(o.Args()[0])
		default:
			return false
		}
	case *query.SingleValueOperand:
		if _, numeric := o.Number(); numeric {
			return false
		}
		return t.users.UserExists(o.Text())
	default:
		return false
	}
}
