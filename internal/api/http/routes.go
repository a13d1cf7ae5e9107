package httpapi

import (
	_ "embed"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/i474232898/clock-widget/internal/widget"
)

//go:embed static/clock-widget.css
var stylesheet []byte

var validate = validator.New()

// Widget is the lifecycle surface exposed over HTTP.
type Widget interface {
	State() widget.State
	Reinit()
}

// Page is the host document.
type Page interface {
	String() string
	Text(id string) (string, bool)
	Dispatch(event string) int
}

// History lists ended cycles, newest first.
type History interface {
	Recent() []widget.State
}

// Options configures the routes. Nil Metrics or History leaves the
// corresponding route unregistered.
type Options struct {
	NavigationEvent string
	StylesheetPath  string
	Metrics         http.Handler
	History         History
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, w Widget, page Page, opts Options) {
	if opts.NavigationEvent == "" {
		opts.NavigationEvent = "pjax:complete"
	}
	if opts.StylesheetPath == "" {
		opts.StylesheetPath = "/css/clock-widget.css"
	}

	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.SendString(page.String())
	})

	app.Get(opts.StylesheetPath, func(c *fiber.Ctx) error {
		c.Type("css", "utf-8")
		return c.Send(stylesheet)
	})

	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics))
	}

	v1 := app.Group("/api/v1")

	v1.Get("/widget", func(c *fiber.Ctx) error {
		return c.JSON(w.State())
	})

	if opts.History != nil {
		v1.Get("/widget/history", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"cycles": opts.History.Recent(),
			})
		})
	}

	v1.Get("/widget/elements", func(c *fiber.Ctx) error {
		q := elementQuery{ID: c.Query("id")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		text, ok := page.Text(q.ID)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "element is not in the document")
		}
		return c.JSON(fiber.Map{
			"id":   q.ID,
			"text": text,
		})
	})

	v1.Post("/widget/reinit", func(c *fiber.Ctx) error {
		w.Reinit()
		return c.JSON(w.State())
	})

	v1.Post("/navigation", func(c *fiber.Ctx) error {
		n := page.Dispatch(opts.NavigationEvent)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"event":     opts.NavigationEvent,
			"listeners": n,
		})
	})
}

// elementQuery selects one of the widget's text elements.
type elementQuery struct {
	ID string `validate:"required,oneof=clock-time clock-date location-info weather-info"`
}
