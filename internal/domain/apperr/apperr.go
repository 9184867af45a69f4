package apperr

import "fmt"

// Error is a business-rule violation with a stable numeric code. Codes are
// grouped by subsystem; see the registry below.
type Error struct {
	Code    int
	Message string
}

func New(code int, message string) *Error { return &Error{Code: code, Message: message} }

func (e *Error) Error() string { return fmt.Sprintf("[%d] %s", e.Code, e.Message) }

// Is matches on code so wrapped/detailed copies still compare equal to the
// registry sentinel via errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy carrying a more specific message under the same code.
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Registry. Ranges: common 10xxx, user 11xxx, organization 12xxx,
// case package 13xxx, case 14xxx, import 15xxx, assignment 16xxx,
// file 17xxx, permission 18xxx.
var (
	ErrSystem           = New(10001, "system busy")
	ErrInvalidParameter = New(10002, "invalid parameter")
	ErrUnauthorized     = New(10003, "unauthorized")
	ErrForbidden        = New(10004, "forbidden")
	ErrNotFound         = New(10005, "resource not found")

	ErrUserNotFound      = New(11001, "user not found")
	ErrUserAlreadyExists = New(11002, "user already exists")
	ErrUserDisabled      = New(11003, "user disabled or locked")
	ErrBadCredentials    = New(11004, "invalid username or password")
	ErrInvalidToken      = New(11008, "invalid token")

	ErrOrgNotFound      = New(12001, "organization not found")
	ErrOrgAlreadyExists = New(12002, "organization already exists")
	ErrOrgNotApproved   = New(12003, "organization not approved")
	ErrOrgSuspended     = New(12004, "organization suspended")
	ErrOrgInvalidType   = New(12005, "invalid organization type")

	ErrPackageNotFound       = New(13001, "case package not found")
	ErrPackageNameExists     = New(13002, "case package name already exists")
	ErrPackageCannotModify   = New(13003, "case package status does not allow modification")
	ErrPackageCannotDelete   = New(13004, "case package status does not allow deletion")
	ErrPackageCannotPublish  = New(13005, "case package status does not allow publishing")
	ErrPackageCannotWithdraw = New(13006, "case package status does not allow withdrawal")
	ErrPackageNoCases        = New(13007, "case package has no cases")

	ErrCaseNotFound         = New(14001, "case not found")
	ErrReceiptNumberExists  = New(14002, "receipt number already exists")
	ErrCaseCannotDelete     = New(14003, "case status does not allow deletion")
	ErrCaseAlreadyClosed    = New(14006, "case already closed")
	ErrInvalidTransition    = New(14007, "invalid status transition")
	ErrCaseAssignmentFailed = New(14008, "case assignment failed")

	ErrImportFileEmpty    = New(15001, "import file is empty")
	ErrImportFileFormat   = New(15002, "unsupported import file format")
	ErrImportFileTooLarge = New(15003, "import file too large")
	ErrImportTaskNotFound = New(15005, "import task not found")
	ErrImportTaskTimeout  = New(15006, "import task timed out")

	ErrFileNotFound        = New(17001, "file not found")
	ErrFileUploadFailed    = New(17002, "file upload failed")
	ErrUnsupportedFileType = New(17005, "unsupported file type")
	ErrFileSizeExceeded    = New(17006, "file size exceeds limit")

	ErrPermissionDenied   = New(18001, "permission denied")
	ErrRoleNotFound       = New(18002, "role not found")
	ErrPermissionNotFound = New(18003, "permission not found")
)
