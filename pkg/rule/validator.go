// Package rule 封装 go-playground/validator，统一使用 rule 标签.
//
// 除内置规则外注册了站点表单使用的规则：
//
//	notblank  去掉首尾空白后不能为空
//	phone     7 到 20 位数字，允许 + - 空格 括号 与点
package rule

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const tagName = "rule"

var (
	inst *validator.Validate
	once sync.Once

	phoneChars = regexp.MustCompile(`^\+?[0-9 ()\-.]+$`)
)

// initValidator 复用 gin 的 validator 引擎，使请求绑定与业务校验使用同一套规则.
func initValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok && v != nil {
		inst = v
	} else {
		inst = validator.New()
	}

	inst.SetTagName(tagName)

	// 内置规则已存在，这里注册失败只会是编程错误
	if err := inst.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}

	if err := inst.RegisterValidation("phone", phone); err != nil {
		panic(err)
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func phone(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !phoneChars.MatchString(s) {
		return false
	}

	digits := 0

	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}

	return digits >= 7 && digits <= 20
}

func lazyInit() {
	once.Do(initValidator)
}

// Engine 返回全局 *validator.Validate，首次调用时同时设置 gin 绑定使用的标签.
func Engine() *validator.Validate {
	lazyInit()

	return inst
}

// ValidateStruct 校验结构体.
func ValidateStruct(s any) error {
	lazyInit()

	return inst.Struct(s)
}

// ValidateVar 按规则校验单个值，例如 ValidateVar("abc", "required,email").
func ValidateVar(field any, tag string) error {
	lazyInit()

	return inst.Var(field, tag)
}

// ValidationErrors 字段名到可读错误信息.
type ValidationErrors map[string]string

// Errors 把校验错误展开为 ValidationErrors，非校验错误返回 nil.
func Errors(err error) ValidationErrors {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}

	out := make(ValidationErrors, len(ves))
	for _, fe := range ves {
		out[fieldName(fe)] = message(fe)
	}

	return out
}

// Describe 返回按字段排序、以分号连接的错误说明.
func Describe(err error) string {
	ve := Errors(err)
	if ve == nil {
		return err.Error()
	}

	fields := make([]string, 0, len(ve))
	for f := range ve {
		fields = append(fields, f)
	}

	slices.Sort(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, ve[f])
	}

	return strings.Join(parts, "; ")
}

// fieldName 去掉顶层结构体名，例如 ProjectInput.Images[0].Caption 得到 Images[0].Caption.
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}

	return ns
}

func message(fe validator.FieldError) string {
	name := fieldName(fe)

	switch fe.Tag() {
	case "required", "notblank":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "phone":
		return name + " must be a valid phone number"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}
