package errno

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// WithMessage 保留错误码，替换提示信息
func (e Errno) WithMessage(msg string) Errno {
	return Errno{Code: e.Code, Message: msg}
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalServerError.Code, err.Error()
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrCallerMissing    = Errno{Code: 10003, Message: "Caller address missing"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
)

// Business Errors (30000+)
var (
	ErrInvalidParameters        = Errno{Code: 30001, Message: "Invalid campaign parameters"}
	ErrBelowMinimumContribution = Errno{Code: 30002, Message: "Contribution below minimum"}
	ErrDeadlinePassed           = Errno{Code: 30003, Message: "Deadline has passed"}
	ErrHardCapExceeded          = Errno{Code: 30004, Message: "Hard cap exceeded"}
	ErrPerUserCapExceeded       = Errno{Code: 30005, Message: "Per-user cap exceeded"}
	ErrClaimTooEarly            = Errno{Code: 30006, Message: "Cannot claim before deadline"}
	ErrUnauthorized             = Errno{Code: 30007, Message: "Only owner can claim successful funding"}
	ErrInvalidInput             = Errno{Code: 30008, Message: "Invalid input"}
	ErrCampaignNotFound         = Errno{Code: 30009, Message: "Campaign not found"}
	ErrInsufficientFunds        = Errno{Code: 30010, Message: "Insufficient funds"}
)
