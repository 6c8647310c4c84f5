package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/keystore"
	"github.com/alnah/go-mdmath/internal/tutor"
)

// keyStore returns the store named by the config, or the environment's.
func keyStore(env *Environment, cfg *config.Config) *keystore.Store {
	if cfg.Keys.StorePath != "" {
		return keystore.New(cfg.Keys.StorePath)
	}
	return env.KeyStore
}

// rotatesKey reports whether err is specific to the API key, so another
// stored key may succeed.
func rotatesKey(err error) bool {
	return errors.Is(err, tutor.ErrQuota) ||
		errors.Is(err, tutor.ErrInvalidKey) ||
		errors.Is(err, tutor.ErrKeyRejected)
}

// withClient runs fn with a client for each resolved key in turn. It moves
// to the next key only on a key-level failure before fn produced output;
// started reports whether it did.
func withClient(ctx context.Context, env *Environment, cfg *config.Config, models []string, logf func(string, ...any), fn func(ChatClient) (started bool, err error)) error {
	resolver := keystore.Resolver{
		Store:   keyStore(env, cfg),
		EnvFile: cfg.Keys.EnvFile,
		Getenv:  env.Getenv,
	}
	keys, err := resolver.ResolveAll()
	if err != nil {
		return err
	}

	var lastErr error
	for i, key := range keys {
		client, err := env.NewClient(ctx, key, models, logf)
		if err != nil {
			return err
		}
		started, err := fn(client)
		if err == nil {
			return nil
		}
		lastErr = err
		if started || i == len(keys)-1 || !rotatesKey(err) || ctx.Err() != nil {
			return err
		}
		logf("key %s failed (%v), trying the next key", keystore.Mask(key), err)
	}
	return lastErr
}

// chatSession holds one conversation and renders each answer as it
// streams in.
type chatSession struct {
	env     *Environment
	cfg     *config.Config
	setup   *renderSetup
	models  []string
	logf    func(string, ...any)
	history []tutor.Message
}

// ask sends msg with the conversation so far. Chunks are written raw to
// live, which may be nil, and rendered into a Stream that is refreshed
// when the formula engine becomes ready mid-answer. ask returns the raw
// answer and its HTML; on failure the conversation records an error turn.
func (c *chatSession) ask(ctx context.Context, msg tutor.Message, live func(string)) (string, string, error) {
	c.history = append(c.history, msg)
	st := c.setup.renderer.NewStream(c.setup.class)

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go c.setup.renderer.Watch(watchCtx, func() { st.Refresh() })

	err := withClient(ctx, c.env, c.cfg, c.models, c.logf, func(client ChatClient) (bool, error) {
		started := false
		err := client.StreamChat(ctx, c.history, func(chunk string) error {
			started = true
			st.Append(chunk)
			if live != nil {
				live(chunk)
			}
			return nil
		})
		return started, err
	})
	if err != nil {
		c.history = append(c.history, tutor.Message{
			ID:      fmt.Sprintf("err-%d", len(c.history)),
			Role:    tutor.RoleModel,
			Text:    tutor.UserMessage(err),
			IsError: true,
		})
		return st.Text(), st.HTML(), err
	}

	answer := st.Text()
	c.history = append(c.history, tutor.NewMessage(tutor.RoleModel, answer))
	return answer, st.Refresh(), nil
}

// reset starts a new conversation.
func (c *chatSession) reset() {
	c.history = nil
}

// transcript renders the conversation, one block per turn.
func (c *chatSession) transcript() string {
	var out []byte
	for _, m := range c.history {
		class := "chat-" + string(m.Role)
		if m.IsError {
			class += " chat-error"
		}
		out = append(out, c.setup.renderer.RenderClass(m.Text, class)...)
		out = append(out, '\n')
	}
	return string(out)
}
