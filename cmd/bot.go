package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	telegram "recognition-bot/internal/api"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Запустить Telegram-бота",
	RunE: func(cmd *cobra.Command, args []string) error {
		if rt.cfg.TelegramToken == "" {
			return errors.New("TELEGRAM_TOKEN is required")
		}

		bot, err := telegram.NewBot(rt.cfg.TelegramToken, rt.app)
		if err != nil {
			return err
		}

		slog.Info("Bot is running...")
		return bot.Run(cmd.Context())
	},
}
