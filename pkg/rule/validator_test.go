package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/rule"
)

type applicant struct {
	Name  string `rule:"required,notblank,max=10"`
	Email string `rule:"required,email"`
	Phone string `rule:"omitempty,phone"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, rule.ValidateStruct(applicant{Name: "Ada", Email: "ada@example.com", Phone: "+254 (712) 345-678"}))
	require.NoError(t, rule.ValidateStruct(applicant{Name: "Ada", Email: "ada@example.com"}))

	err := rule.ValidateStruct(applicant{Name: "   ", Email: "nope", Phone: "call me"})
	require.Error(t, err)

	errs := rule.Errors(err)
	assert.Equal(t, rule.ValidationErrors{
		"Name":  "Name is required",
		"Email": "Email must be a valid email address",
		"Phone": "Phone must be a valid phone number",
	}, errs)

	assert.Equal(t, "Email must be a valid email address; Name is required; Phone must be a valid phone number", rule.Describe(err))
}

// TestPhone 位数限制.
func TestPhone(t *testing.T) {
	cases := map[string]bool{
		"0712345678":               true,
		"+1 555.010.9999":          true,
		"12345":                    false,
		"+12345678901234567890123": false,
		"07123abc":                 false,
	}

	for in, ok := range cases {
		err := rule.ValidateVar(in, "phone")
		assert.Equal(t, ok, err == nil, in)
	}
}

func TestDescribe_NonValidationError(t *testing.T) {
	assert.Nil(t, rule.Errors(assert.AnError))
	assert.Equal(t, assert.AnError.Error(), rule.Describe(assert.AnError))
}

func TestEngine_Singleton(t *testing.T) {
	assert.Same(t, rule.Engine(), rule.Engine())
}
