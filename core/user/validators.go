package user

import (
	"github.com/go-playground/validator/v10"

	"github.com/kicentre/madrasa/core"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "unknown role"
)

func init() {
	_ = core.Validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, allRolesTag, allRolesText)
}

// allRolesValidation checks that all roles in the field are known roles.
func allRolesValidation(fl validator.FieldLevel) bool {
	if roles, ok := fl.Field().Interface().([]string); ok {
		for _, role := range roles {
			if !isKnownRole(role) {
				return false
			}
		}
		return true
	}
	return false
}

func isKnownRole(role string) bool {
	for _, known := range AllRoles {
		if role == known {
			return true
		}
	}
	return false
}
