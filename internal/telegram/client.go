// Package telegram implements the outbound messaging channel against the
// Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hirepulse/internal/notify"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const apiBaseURL = "https://api.telegram.org"

var errDisabled = errors.New("telegram sender disabled: no bot token")

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID      int64        `json:"chat_id"`
	Text        string       `json:"text"`
	ParseMode   string       `json:"parse_mode,omitempty"`
	ReplyMarkup *replyMarkup `json:"reply_markup,omitempty"`
}

// Client sends messages through the Bot API. A Client constructed without a
// token is disabled: Enabled() reports false and every Send fails fast.
type Client struct {
	client *resty.Client
	token  string
	log    *zap.Logger
}

func NewClient(token string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if token == "" {
		log.Warn("BOT_TOKEN is not set, outbound telegram messages are disabled")
	}

	client := resty.New().
		SetBaseURL(apiBaseURL).
		SetTimeout(15 * time.Second)

	return &Client{client: client, token: token, log: log}
}

func (c *Client) Enabled() bool {
	return c != nil && c.token != ""
}

// Send delivers one MarkdownV2 message with an optional inline keyboard.
// A 403 from the API means the recipient blocked the bot and is surfaced
// as notify.ErrRecipientBlocked.
func (c *Client) Send(ctx context.Context, chatID int64, text string, kb notify.Keyboard) error {
	if !c.Enabled() {
		return errDisabled
	}

	req := sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "MarkdownV2",
	}
	if len(kb) > 0 {
		rm := &replyMarkup{InlineKeyboard: make([][]inlineButton, 0, len(kb))}
		for _, row := range kb {
			btns := make([]inlineButton, 0, len(row))
			for _, b := range row {
				btns = append(btns, inlineButton{Text: b.Label, CallbackData: b.Action})
			}
			rm.InlineKeyboard = append(rm.InlineKeyboard, btns)
		}
		req.ReplyMarkup = rm
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(fmt.Sprintf("/bot%s/sendMessage", c.token))
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}

	if resp.IsError() || !gjson.GetBytes(resp.Body(), "ok").Bool() {
		return classifyAPIError(resp.Body(), resp.StatusCode())
	}
	return nil
}

// classifyAPIError maps a Bot API error payload to the dispatcher's error
// taxonomy: error_code 403 (bot blocked, user deactivated) becomes
// ErrRecipientBlocked, everything else stays a transient error.
func classifyAPIError(body []byte, httpStatus int) error {
	code := gjson.GetBytes(body, "error_code").Int()
	if code == 0 {
		code = int64(httpStatus)
	}
	description := gjson.GetBytes(body, "description").String()

	if code == 403 {
		return fmt.Errorf("%w: %s", notify.ErrRecipientBlocked, description)
	}
	return fmt.Errorf("telegram API error %d: %s", code, description)
}
