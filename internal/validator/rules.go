package validator

import (
	"log"
	"regexp"

	"comicweb_backend/internal/auth"
	"comicweb_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	otpCodeRe = regexp.MustCompile(`^[0-9]{6}$`)
	slugRe    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// registerCustomRules регистрирует кастомные правила
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// ошибка конфигурации, запускаться нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// Одноразовый код: ровно 6 цифр
	mustRegister("otp_code", func(fl validator.FieldLevel) bool {
		return otpCodeRe.MatchString(fl.Field().String())
	})

	// bcrypt принимает не больше 72 байт, max=72 считает символы
	mustRegister("password_bytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= auth.MaxPasswordBytes
	})

	mustRegister("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})

	mustRegister("ledger_entry_type", func(fl validator.FieldLevel) bool {
		return models.LedgerEntryType(fl.Field().String()).IsValid()
	})

	mustRegister("withdraw_status", func(fl validator.FieldLevel) bool {
		return models.WithdrawStatus(fl.Field().String()).IsValid()
	})

	mustRegister("transaction_status", func(fl validator.FieldLevel) bool {
		return models.TransactionStatus(fl.Field().String()).IsValid()
	})
}
