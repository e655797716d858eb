package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fintrack/app"
	"fintrack/live"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/services"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const streamKeepAlive = 15 * time.Second

// streamQuery is a live query together with the topics that invalidate it
type streamQuery struct {
	run    func(ctx context.Context) (any, error)
	topics []live.Topic
}

// streamFor builds the live query behind a stream name. Request values are
// captured here since the fiber context is not usable once streaming starts.
func streamFor(a *app.App, c *fiber.Ctx, name string) (*streamQuery, error) {
	userID := middleware.GetUserID(c)
	lang := c.Query("lang")

	switch name {
	case "transactions":
		filter, err := transactionFilter(c)
		if err != nil {
			return nil, err
		}
		return &streamQuery{
			run: func(ctx context.Context) (any, error) {
				return a.Transactions.List(ctx, userID, filter)
			},
			topics: []live.Topic{live.TransactionsTopic(userID)},
		}, nil

	case "categories":
		kind, ok := parseKind(c)
		if !ok {
			return nil, errInvalidKind
		}
		all := c.QueryBool("all", false)
		return &streamQuery{
			run: func(ctx context.Context) (any, error) {
				cats, err := a.Categories.List(ctx, userID, kind, all)
				if err != nil {
					return nil, err
				}
				return services.Localize(cats, streamLanguage(a, lang)), nil
			},
			topics: []live.Topic{live.CategoriesTopic(userID), live.TopicPreferences},
		}, nil

	case "summary":
		r, err := reportRange(a, c)
		if err != nil {
			return nil, err
		}
		return &streamQuery{
			run: func(ctx context.Context) (any, error) {
				return a.Reports.Summary(ctx, userID, r)
			},
			topics: []live.Topic{live.TransactionsTopic(userID)},
		}, nil

	case "preferences":
		return &streamQuery{
			run: func(context.Context) (any, error) {
				return a.Preferences.Load(), nil
			},
			topics: []live.Topic{live.TopicPreferences},
		}, nil
	}

	return nil, fmt.Errorf("unknown stream %q", name)
}

func streamLanguage(a *app.App, lang string) string {
	if models.IsLanguage(lang) {
		return lang
	}
	return a.Preferences.Load().Language
}

// Stream pushes the current result of a query as a server-sent event and a
// fresh one after every change that affects it
func Stream(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("topic")
		query, err := streamFor(a, c, name)
		if err != nil {
			return badRequest(c, err.Error())
		}

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		userID := middleware.GetUserID(c)

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			slog.Debug("stream opened", "user_id", userID, "stream", name)
			serveStream(context.Background(), w, a.Hub, name, query, streamKeepAlive)
			slog.Debug("stream closed", "user_id", userID, "stream", name)
		}))

		return nil
	}
}

// serveStream writes every result of query to w until ctx is done, the hub
// closes or a write fails because the client went away. The subscription
// ends with it.
func serveStream(ctx context.Context, w *bufio.Writer, hub *live.Hub, name string, query *streamQuery, keepAlive time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := live.Watch(ctx, hub, query.run, query.topics...)
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := writeEvent(w, name, update); err != nil {
				return
			}
		case <-ticker.C:
			// Comment line; a failed flush means the client went away
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w *bufio.Writer, name string, update live.Update[any]) error {
	event, payload := name, update.Value
	if update.Err != nil {
		slog.Error("live query failed", "stream", name, "error", update.Err)
		event, payload = "error", fiber.Map{"error": "Failed to load " + name}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
