package main

import (
	"errors"
	"fmt"

	"github.com/anonto42/cafe-likes/internal/liketoggle"
	"github.com/anonto42/cafe-likes/internal/tui"
	"github.com/spf13/cobra"
)

// describe prints the buttons the way a page would show them.
func describe(b liketoggle.Buttons) string {
	switch {
	case b.UnlikeVisible:
		return "liked [Unlike]"
	case b.LikeVisible:
		return "not liked [Like]"
	default:
		return "unknown"
	}
}

func (a *app) runStatus(cmd *cobra.Command, args []string) error {
	ctrl := a.controller(nil)
	if err := ctrl.DisplayProperButtons(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cafe %d: %s\n", ctrl.CafeID(), describe(ctrl.Buttons()))
	return nil
}

func (a *app) runLike(cmd *cobra.Command, args []string) error {
	return a.runClick(cmd, true)
}

func (a *app) runUnlike(cmd *cobra.Command, args []string) error {
	return a.runClick(cmd, false)
}

// runClick loads the page state and clicks the requested button. Clicking a
// button that is not shown means there is nothing to do.
func (a *app) runClick(cmd *cobra.Command, like bool) error {
	ctx := cmd.Context()
	ctrl := a.controller(nil)
	if err := ctrl.DisplayProperButtons(ctx); err != nil {
		return err
	}

	click := ctrl.ClickUnlike
	if like {
		click = ctrl.ClickLike
	}
	err := click(ctx)
	switch {
	case errors.Is(err, liketoggle.ErrNotVisible):
		fmt.Fprintf(cmd.OutOrStdout(), "cafe %d: already %s\n", ctrl.CafeID(), describe(ctrl.Buttons()))
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cafe %d: %s\n", ctrl.CafeID(), describe(ctrl.Buttons()))
	return nil
}

func (a *app) runToggle(cmd *cobra.Command, args []string) error {
	renderer := tui.NewRenderer()
	ctrl := a.controller(renderer)
	return tui.Run(cmd.Context(), ctrl, renderer)
}
