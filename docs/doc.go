// Package docs provides generated OpenAPI documentation.
//
// MentorAI API
//
//	@title			MentorAI API
//	@version		1.0
//	@description	Career document OCR and study curriculum generation API.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/every-mentor/mentorai
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8090
//	@BasePath	/
//
//	@schemes	http
package docs
