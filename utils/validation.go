package utils

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	models "github.com/lifeline/blood-donation-go/models"
)

// RegisterValidators adds the domain tags used in request bindings:
// bloodgroup, userrole, userstatus.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("bloodgroup", func(fl validator.FieldLevel) bool {
		return models.ValidBloodGroup(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("userrole", func(fl validator.FieldLevel) bool {
		return models.ValidRole(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("userstatus", func(fl validator.FieldLevel) bool {
		return models.ValidUserStatus(fl.Field().String())
	})
}
