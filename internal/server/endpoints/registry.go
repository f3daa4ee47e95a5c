package endpoints

import (
	"github.com/every-mentor/mentorai/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// OCR endpoint
		&OCREndpoint{},

		// Certificate endpoints
		&ResolveEndpoint{},
		&SubjectsEndpoint{},

		// Company endpoint
		&ExtractCompaniesEndpoint{},

		// Curriculum endpoint
		&CurriculumEndpoint{},
	}
}
