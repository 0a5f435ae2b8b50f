package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/wigglebyte/console/internal/app/api/server"
	"github.com/wigglebyte/console/internal/app/jobs"
	"github.com/wigglebyte/console/internal/app/service/checkout"
	"github.com/wigglebyte/console/internal/app/service/history"
	"github.com/wigglebyte/console/internal/app/service/notificationlog"
	"github.com/wigglebyte/console/internal/app/service/subscription"
	"github.com/wigglebyte/console/internal/app/service/user"
	"github.com/wigglebyte/console/internal/platform/db"
	"github.com/wigglebyte/console/internal/platform/exchangerate"
	"github.com/wigglebyte/console/pkg/config"
	"github.com/wigglebyte/console/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	subscription.Module,
	history.Module,
	checkout.Module,
	user.Module,
	notificationlog.Module,
	exchangerate.Module,
	jobs.Module,
)
