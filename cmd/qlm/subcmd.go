package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/xyths/hs"
	"github.com/xyths/qlm/cmd/utils"
	"github.com/xyths/qlm/exchange/okx"
	monitor2 "github.com/xyths/qlm/monitor"
	"github.com/xyths/qlm/snapshot"
)

var (
	checkCommand = &cli.Command{
		Action: check,
		Name:   "check",
		Usage:  "Send one signed request and print the reply",
		Flags: []cli.Flag{
			utils.EndpointFlag,
		},
	}
	watchCommand = &cli.Command{
		Action: watch,
		Name:   "watch",
		Usage:  "Monitor the loan on an interval",
		Flags: []cli.Flag{
			utils.IntervalFlag,
		},
	}
	historyCommand = &cli.Command{
		Name:  "history",
		Usage: "Manage loan snapshots",
		Subcommands: []*cli.Command{
			{
				Action: summary,
				Name:   "summary",
				Usage:  "Summarize recorded snapshots",
				Flags: []cli.Flag{
					utils.HoursFlag,
				},
			},
			{
				Action: export,
				Name:   "export",
				Usage:  "Export snapshots to csv",
				Flags: []cli.Flag{
					utils.StartTimeFlag,
					utils.EndTimeFlag,
					utils.CsvFlag,
				},
			},
		},
	}
)

func monitor(ctx *cli.Context) error {
	cfg, err := monitor2.Load(ctx.String(utils.ConfigFlag.Name))
	if err != nil {
		return err
	}
	if ctx.Bool(utils.DebugFlag.Name) {
		cfg.Monitor.Debug = true
	}
	m := monitor2.New(cfg)
	if err := m.Init(ctx.Context); err != nil {
		return err
	}
	defer m.Close(ctx.Context)
	return m.Once(ctx.Context)
}

func watch(ctx *cli.Context) error {
	cfg, err := monitor2.Load(ctx.String(utils.ConfigFlag.Name))
	if err != nil {
		return err
	}
	if ctx.Bool(utils.DebugFlag.Name) {
		cfg.Monitor.Debug = true
	}
	if interval := ctx.String(utils.IntervalFlag.Name); interval != "" {
		cfg.Monitor.Interval = interval
	}
	m := monitor2.New(cfg)
	if err := m.Init(ctx.Context); err != nil {
		return err
	}
	defer m.Close(ctx.Context)
	return m.Watch(ctx.Context)
}

func check(ctx *cli.Context) error {
	cfg, err := monitor2.Load(ctx.String(utils.ConfigFlag.Name))
	if err != nil {
		return err
	}
	pair, err := cfg.KeyPair()
	if err != nil {
		return err
	}
	client, err := okx.New(pair)
	if err != nil {
		return err
	}
	client.Debug = ctx.Bool(utils.DebugFlag.Name) || cfg.Monitor.Debug

	path := "/api/v5/account/balance"
	if ctx.String(utils.EndpointFlag.Name) == "collateral" {
		path = "/api/v5/finance/flexible-loan/collateral-assets"
	}
	status, body, err := client.Probe(ctx.Context, path)
	if err != nil {
		return err
	}
	fmt.Printf("GET %s: HTTP %d\n", path, status)
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Printf("%s\n", body)
	}

	var envelope struct {
		Code string `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errors.Wrap(err, "bad reply")
	}
	if status != http.StatusOK || envelope.Code != "0" {
		apiErr := &okx.APIError{Status: status, Code: envelope.Code, Msg: envelope.Msg}
		if hint := apiErr.Hint(); hint != "" {
			fmt.Println(hint)
		}
		return apiErr
	}
	if conf, err := client.AccountConfig(ctx.Context); err == nil {
		fmt.Printf("uid %s, account level %s\n", conf.Uid, conf.AcctLv)
	}
	return nil
}

func summary(ctx *cli.Context) error {
	cfg, err := monitor2.Load(ctx.String(utils.ConfigFlag.Name))
	if err != nil {
		return err
	}
	if cfg.Mongo.URI == "" {
		return errors.New("no mongo in config")
	}
	db, err := hs.ConnectMongo(ctx.Context, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Client().Disconnect(ctx.Context)
	}()
	store := snapshot.New(db)
	s, err := store.Summary(ctx.Context, ctx.Int(utils.HoursFlag.Name))
	if err != nil {
		return err
	}
	monitor2.RenderSummary(os.Stdout, s)
	return nil
}

func export(ctx *cli.Context) error {
	cfg, err := monitor2.Load(ctx.String(utils.ConfigFlag.Name))
	if err != nil {
		return err
	}
	if cfg.Mongo.URI == "" {
		return errors.New("no mongo in config")
	}
	db, err := hs.ConnectMongo(ctx.Context, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Client().Disconnect(ctx.Context)
	}()
	store := snapshot.New(db)
	start := ctx.String(utils.StartTimeFlag.Name)
	end := ctx.String(utils.EndTimeFlag.Name)
	csv := ctx.String(utils.CsvFlag.Name)
	return store.Export(ctx.Context, start, end, csv)
}
