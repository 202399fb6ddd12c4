package service

import (
	"errors"
	"fmt"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/repository"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/rule"
)

var (
	// ErrValidation 输入不合法.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound 记录不存在.
	ErrNotFound = repository.ErrNotFound
	// ErrConflict 记录已存在.
	ErrConflict = repository.ErrConflict
	// ErrUnsupportedFile 文件类型不被接受.
	ErrUnsupportedFile = errors.New("unsupported file type")
	// ErrJobClosed 职位已关闭，不接受申请.
	ErrJobClosed = errors.New("job posting is not accepting applications")
)

// invalid 把校验错误转换为带字段说明的 ErrValidation，其他原因保留在错误链中.
func invalid(err error) error {
	if err == nil {
		return nil
	}

	if rule.Errors(err) == nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return fmt.Errorf("%w: %s", ErrValidation, rule.Describe(err))
}
