package main

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/gateway"
	"github.com/ugsbrasil/sharetrack/internal/gateway/rest"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	Fixture    string        `long:"fixture" env:"FIXTURE" default:"fixture.json" description:"path to fixture"`
	APIURL     string        `long:"api.url" env:"API_URL" default:"https://ugsbrasil.com.br/api" description:"tracker api base url"`
	APITimeout time.Duration `long:"api.timeout" env:"API_TIMEOUT" default:"30s" description:"timeout for requests to tracker api"`
}{}

const progressStep = 20

type fixture struct {
	Users []struct {
		Username string        `json:"username"`
		Role     entities.Role `json:"role"`
		Password string        `json:"password"`
	} `json:"users"`
	Posts []struct {
		Content  string `json:"content"`
		PostDate string `json:"post_date"`
	} `json:"posts"`
	Goals []struct {
		UserID      *uint64         `json:"user_id"`
		GoalType    entities.Period `json:"goal_type"`
		TargetValue int             `json:"target_value"`
		StartDate   string          `json:"start_date"`
		EndDate     string          `json:"end_date"`
	} `json:"goals"`
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "seed"
	parser.LongDescription = "Fixture to tracker api importer"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	logrus.Info("seed started")
	logrus.Infof("%+v", opts)

	b, err := ioutil.ReadFile(opts.Fixture)
	if err != nil {
		logrus.WithError(err).Fatal("failed to read fixture")
	}

	var f fixture

	if err := json.Unmarshal(b, &f); err != nil {
		logrus.WithError(err).Fatal("failed to unmarshal fixture")
	}

	ctx := context.Background()
	g := rest.New(opts.APIURL, &http.Client{Timeout: opts.APITimeout})

	if err := g.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("tracker api is unavailable")
	}

	logrus.Info("import users")
	for i, v := range f.Users {
		if err := g.CreateUser(ctx, &gateway.UserParams{
			Username: v.Username,
			Role:     v.Role,
			Password: v.Password,
		}); err != nil {
			logrus.WithError(err).WithField("username", v.Username).Fatal("failed to create user")
		}

		logProgress(i, len(f.Users), "users")
	}

	logrus.Info("import posts")
	for i, v := range f.Posts {
		if err := g.CreatePost(ctx, &gateway.PostParams{
			Content:  v.Content,
			PostDate: v.PostDate,
			Type:     entities.OriginalPostType,
		}); err != nil {
			logrus.WithError(err).Fatal("failed to create post")
		}

		logProgress(i, len(f.Posts), "posts")
	}

	logrus.Info("import goals")
	for i, v := range f.Goals {
		if !v.GoalType.IsValid() {
			logrus.WithField("goal_type", v.GoalType).Fatal("invalid goal type")
		}

		if err := g.CreateGoal(ctx, &gateway.GoalParams{
			UserID:      v.UserID,
			GoalType:    v.GoalType,
			TargetValue: v.TargetValue,
			StartDate:   v.StartDate,
			EndDate:     v.EndDate,
		}); err != nil {
			logrus.WithError(err).Fatal("failed to create goal")
		}

		logProgress(i, len(f.Goals), "goals")
	}

	logrus.Info("done")
}

func logProgress(i, total int, what string) {
	if (i+1)%progressStep == 0 || i+1 == total {
		logrus.Infof("%d of %d %s imported", i+1, total, what)
	}
}
