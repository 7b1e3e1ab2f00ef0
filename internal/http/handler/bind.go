package handler

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"
)

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// bindBody decodes a JSON or URL-encoded body into out. Other content types
// and empty bodies leave out untouched so field validation reports them.
func bindBody(c *fiber.Ctx, out any) error {
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.TrimSpace(ct)

	switch ct {
	case fiber.MIMEApplicationJSON:
		body := c.Body()
		if len(strings.TrimSpace(string(body))) == 0 {
			return nil
		}
		return json.Unmarshal(body, out)
	case fiber.MIMEApplicationForm:
		values := url.Values{}
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			values.Add(string(key), string(value))
		})
		return formDecoder.Decode(out, values)
	default:
		return nil
	}
}
