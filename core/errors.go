package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），可识别经 fmt.Errorf("%w") 包装后的错误
//
// 使用场景：
//   - Store 错误：NOT_FOUND, UNAVAILABLE
//   - Vector 错误：INVALID_INPUT（维度不一致）
//   - Recommend 错误：EMPTY_CATALOG（降级链耗尽）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "vector", "recommend"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is 按 Module + Code 比较，使 errors.Is(err, ErrStoreUnavailable) 对同类的新建错误也成立。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Module == "" || e.Module == t.Module)
}

// IsDomainError 检查错误链中是否包含 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 存储/服务不可用（含超时、熔断）
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeEmptyCatalog  = "EMPTY_CATALOG"  // 兜底数据源也无结果
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore     = "store"
	ModuleVector    = "vector"
	ModuleSignal    = "signal"
	ModuleRecommend = "recommend"
)

var (
	// ErrInvalidInput 表示输入非法（坐标越界、维度不一致等）
	ErrInvalidInput = NewDomainError("", ErrorCodeInvalidInput, "invalid input")

	// ErrStoreUnavailable 表示存储查询失败，触发降级链
	ErrStoreUnavailable = NewDomainError(ModuleStore, ErrorCodeUnavailable, "store: unavailable")

	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")

	// ErrEmptyCatalog 表示降级链已耗尽，是 Orchestrator 唯一对外暴露的错误
	ErrEmptyCatalog = NewDomainError(ModuleRecommend, ErrorCodeEmptyCatalog, "recommend: fallback chain exhausted")
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool { return hasCode(err, ErrorCodeUnavailable) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsEmptyCatalog 检查错误是否为降级链耗尽
func IsEmptyCatalog(err error) bool { return hasCode(err, ErrorCodeEmptyCatalog) }

// Unavailable 把底层错误包装为 StoreUnavailable，保留原始错误链。
func Unavailable(module, op string, err error) error {
	if err == nil {
		return nil
	}
	return &unavailableError{
		DomainError: NewDomainError(module, ErrorCodeUnavailable, module+": "+op+": "+err.Error()),
		cause:       err,
	}
}

type unavailableError struct {
	*DomainError
	cause error
}

func (e *unavailableError) Unwrap() []error { return []error{e.DomainError, e.cause} }
