package student

import (
	"fmt"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/kazi/core"
)

// keys at least this similar to an unknown key are offered as suggestions
var suggestMinRatio = .6

// Service resolves student keys against the loaded config.
type Service struct {
	students   map[string]core.StudentConfig
	file       string
	validate   *validator.Validate
	translator ut.Translator
}

func NewService(conf *core.Config, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{
		students:   conf.Students,
		file:       conf.File,
		validate:   validate,
		translator: translator,
	}
}

// Keys returns the configured student keys, sorted.
func (svc *Service) Keys() []string {
	keys := make([]string, 0, len(svc.students))
	for key := range svc.students {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the student configured under key (case-insensitive).
// Unknown keys and missing credentials are *core.ConfigError.
func (svc *Service) Get(key string) (Student, error) {
	key = core.CleanString(key, true /* lower */)
	sc, ok := svc.students[key]
	if !ok {
		return Student{}, &core.ConfigError{
			Msg:        fmt.Sprintf("student %q not found in %s", key, svc.file),
			Suggestion: svc.suggest(key),
		}
	}

	stu := Student{
		Key:    key,
		Name:   core.CleanString(sc.Name),
		Domain: strings.TrimSuffix(core.CleanString(sc.Domain, true /* lower */), "/"),
		Token:  core.CleanString(sc.Token),
		UserID: core.CleanString(sc.UserID),
	}
	if err := svc.validate.Struct(stu); err != nil {
		if flds := core.FieldErrors(err, svc.translator); flds != nil {
			return Student{}, core.NewConfigError(fmt.Sprintf("student %q has invalid credentials in %s", key, svc.file), flds...)
		}
		return Student{}, err
	}
	return stu, nil
}

func (svc *Service) suggest(key string) string {
	var best string
	var bestRatio float64
	for _, candidate := range svc.Keys() {
		ratio := difflib.NewMatcher(strings.Split(key, ""), strings.Split(candidate, "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = candidate, ratio
		}
	}
	if bestRatio < suggestMinRatio {
		return ""
	}
	return best
}
