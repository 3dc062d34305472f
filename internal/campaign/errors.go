package campaign

import "errors"

// 所有错误都是终止性的: 调用失败，状态保持调用前的样子
var (
	ErrInvalidParameters        = errors.New("invalid campaign parameters")
	ErrBelowMinimumContribution = errors.New("contribution below minimum")
	ErrDeadlinePassed           = errors.New("cannot fund after deadline")
	ErrHardCapExceeded          = errors.New("hard cap exceeded")
	ErrPerUserCapExceeded       = errors.New("per user cap exceeded")
	ErrClaimTooEarly            = errors.New("cannot claim before deadline")
	ErrUnauthorized             = errors.New("only owner can claim successful funding")
	ErrInvalidInput             = errors.New("invalid input")
)

// ErrorName 返回错误在分类中的名字 (场景文件与日志使用)，未知错误返回空字符串
func ErrorName(err error) string {
	for _, e := range taxonomy {
		if errors.Is(err, e.err) {
			return e.name
		}
	}
	return ""
}

var taxonomy = []struct {
	name string
	err  error
}{
	{"InvalidParameters", ErrInvalidParameters},
	{"BelowMinimumContribution", ErrBelowMinimumContribution},
	{"DeadlinePassed", ErrDeadlinePassed},
	{"HardCapExceeded", ErrHardCapExceeded},
	{"PerUserCapExceeded", ErrPerUserCapExceeded},
	{"ClaimTooEarly", ErrClaimTooEarly},
	{"Unauthorized", ErrUnauthorized},
	{"InvalidInput", ErrInvalidInput},
}
