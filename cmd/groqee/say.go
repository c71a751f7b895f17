package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdondlinger/groqee/internal/config"
	"github.com/jdondlinger/groqee/internal/providers/tts"
	"github.com/jdondlinger/groqee/internal/service/speech"
)

var sayCmd = &cobra.Command{
	Use:   "say [text]",
	Short: "Synthesize text to a WAV file",
	Long:  `Sends the given text to the speech endpoint and writes the audio to the runtime audio directory.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		appCfg := config.NewAppConfig(ctx)
		groqCfg := config.NewGroqConfig(ctx, appCfg.RuntimePath)

		provider := tts.NewGroq(groqCfg.BaseURL, groqCfg.APIKey, groqCfg.SpeechModel, groqCfg.Voice)
		speaker := speech.NewSpeaker(provider, appCfg.GetAudioPath())

		path, err := speaker.Speak(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sayCmd)
}
