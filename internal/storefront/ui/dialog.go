// Package ui holds page-level view state.
package ui

// DialogKind enumerates the modal a CRUD page can show. Only one is open at a time.
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogCreating
	DialogEditing
	DialogDeleting
)

func (k DialogKind) String() string {
	switch k {
	case DialogCreating:
		return "creating"
	case DialogEditing:
		return "editing"
	case DialogDeleting:
		return "deleting"
	default:
		return "none"
	}
}

// Dialog is the single dialog state of a page. The zero value is closed.
type Dialog struct {
	kind   DialogKind
	target string
}

func (d *Dialog) OpenCreate() {
	*d = Dialog{kind: DialogCreating}
}

func (d *Dialog) OpenEdit(id string) {
	*d = Dialog{kind: DialogEditing, target: id}
}

func (d *Dialog) OpenDelete(id string) {
	*d = Dialog{kind: DialogDeleting, target: id}
}

func (d *Dialog) Close() {
	*d = Dialog{}
}

func (d Dialog) Kind() DialogKind {
	return d.kind
}

func (d Dialog) IsOpen() bool {
	return d.kind != DialogNone
}

func (d Dialog) IsCreating() bool {
	return d.kind == DialogCreating
}

func (d Dialog) IsEditing() bool {
	return d.kind == DialogEditing
}

func (d Dialog) IsDeleting() bool {
	return d.kind == DialogDeleting
}

// TargetID is the record an edit or delete dialog refers to, empty otherwise.
func (d Dialog) TargetID() string {
	return d.target
}
