package registry

type ToastVariant string

const (
	ToastDefault     ToastVariant = "default"
	ToastDestructive ToastVariant = "destructive"
)

// Toast es una notificación transitoria dentro de la app.
type Toast struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Variant     ToastVariant `json:"variant"`
}

const (
	MsgFetchFailed  = "Failed to fetch medicines"
	MsgAddFailed    = "Failed to add medicine"
	MsgUpdateFailed = "Failed to update medicine"
	MsgDeleteFailed = "Failed to delete medicine"

	MsgAdded   = "Medicine added successfully"
	MsgUpdated = "Medicine updated successfully"
	MsgDeleted = "Medicine deleted successfully"
)

// Reporter muestra toasts al usuario (todas sus sesiones abiertas).
type Reporter interface {
	Report(userID string, t Toast)
}

type ReporterFunc func(userID string, t Toast)

func (f ReporterFunc) Report(userID string, t Toast) { f(userID, t) }

type nopReporter struct{}

func (nopReporter) Report(string, Toast) {}

func errorToast(msg string) Toast {
	return Toast{Title: "Error", Description: msg, Variant: ToastDestructive}
}

func successToast(msg string) Toast {
	return Toast{Title: "Success", Description: msg, Variant: ToastDefault}
}
