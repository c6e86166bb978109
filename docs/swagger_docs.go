// Package docs holds the general swaggo annotations for the lanwatch API.
// Per-endpoint annotations live on the handlers in internal/api/handlers.
//
//go:generate swag init -g swagger_docs.go -o ./swagger --parseDependency --parseInternal
package docs

// @title lanwatch API
// @version 1.0
// @description LAN device discovery: sweep a local range, track devices in a
// @description persistent registry and stream scan events over a websocket.
//
// @contact.name lanwatch
// @contact.url https://github.com/anstrom/lanwatch
//
// @license.name MIT
// @license.url https://github.com/anstrom/lanwatch/blob/main/LICENSE
//
// @host localhost:8080
// @BasePath /api/v1
