package gate

// Action describes the kind of operation a subject wants to perform.
// Beyond the usual CRUD verbs, the order lifecycle edges are first-class
// actions so each edge can be granted independently.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionList   Action = "list"

	// Order lifecycle edges.
	ActionValidate Action = "validate"
	ActionPrepare  Action = "prepare"
	ActionShip     Action = "ship"
	ActionDeliver  Action = "deliver"
	ActionCancel   Action = "cancel"

	// Settlement.
	ActionPay Action = "pay"
)
