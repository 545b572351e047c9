package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/config"
	"github.com/Skufu/heartcheck/internal/display"
	"github.com/Skufu/heartcheck/internal/prediction"
	"github.com/Skufu/heartcheck/internal/upstream"
)

func assessCmd() *cobra.Command {
	in := assessment.DefaultInput()
	var offline bool

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run one risk assessment from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if res := assessment.Validate(in); !res.Valid() {
				for _, f := range res.Fields() {
					fmt.Fprintf(out, "%s: %s\n", f, res[f])
				}
				return &assessment.ValidationError{Fields: res}
			}

			if offline {
				badge := display.ForRiskLevel(prediction.Estimate(in))
				fmt.Fprintf(out, "Estimated risk: %s (offline heuristic)\n", badge.Label)
				return nil
			}

			client, timeout, err := predictionClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := client.Predict(ctx, in)
			if err != nil {
				if d := upstream.Detail(err); d != "" {
					return fmt.Errorf("%s: %w", d, err)
				}
				return err
			}
			printResult(out, result)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&in.Age, "age", in.Age, "age in years (18-120)")
	f.IntVar(&in.Sex, "sex", in.Sex, "1 for male, 0 for female")
	f.StringVar(&in.ChestPainType, "chest-pain", in.ChestPainType, "chest pain type")
	f.IntVar(&in.RestingBloodPressure, "bp", in.RestingBloodPressure, "resting blood pressure in mm Hg (80-220)")
	f.IntVar(&in.SerumCholesterol, "cholesterol", in.SerumCholesterol, "serum cholesterol in mg/dl (100-500)")
	f.IntVar(&in.FastingBloodSugar, "fbs", in.FastingBloodSugar, "fasting blood sugar above 120 mg/dl (0 or 1)")
	f.IntVar(&in.RestingECG, "ecg", in.RestingECG, "resting ECG result (0-2)")
	f.IntVar(&in.MaxHeartRate, "max-hr", in.MaxHeartRate, "maximum heart rate (40-220)")
	f.IntVar(&in.ExerciseInducedAngina, "angina", in.ExerciseInducedAngina, "exercise induced angina (0 or 1)")
	f.Float64Var(&in.STDepression, "st-depression", in.STDepression, "ST depression (0-6.2)")
	f.StringVar(&in.SlopeSTSegment, "slope", in.SlopeSTSegment, "slope of the ST segment")
	f.IntVar(&in.NumMajorVessels, "vessels", in.NumMajorVessels, "number of major vessels (0-3)")
	f.StringVar(&in.Thalassemia, "thal", in.Thalassemia, "thalassemia result")
	f.BoolVar(&offline, "offline", false, "estimate locally without calling the prediction service")
	return cmd
}

func historyCmd() *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List predictions stored by the prediction service",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, timeout, err := predictionClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			items, err := client.ListPredictions(ctx, skip, limit)
			if err != nil {
				if errors.Is(err, upstream.ErrUnauthorized) {
					return fmt.Errorf("the prediction service requires authentication: %w", err)
				}
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tCONFIDENCE\tCREATED")
			for _, p := range items {
				fmt.Fprintf(w, "%v\t%s\t%s\t%s\n", p.ID, p.RiskCategory, display.Confidence(p.Confidence), p.CreatedAt)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "number of predictions to skip")
	cmd.Flags().IntVar(&limit, "limit", prediction.DefaultListLimit, "maximum number of predictions to list")
	return cmd
}

func predictionClient() (*prediction.Client, time.Duration, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, 0, fmt.Errorf("config error: %w", err)
	}
	timeout := cfg.UpstreamTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return prediction.NewClient(upstream.New(cfg.PredictionAPIURL, timeout, nil)), timeout, nil
}

func printResult(out io.Writer, r prediction.Result) {
	v := display.ForResult(r)
	fmt.Fprintf(out, "%s\n", v.Label)
	fmt.Fprintf(out, "Category:   %s\n", r.RiskCategory)
	fmt.Fprintf(out, "Confidence: %s\n", display.Confidence(r.Confidence))
	fmt.Fprintf(out, "%s\n", v.Message)
}
