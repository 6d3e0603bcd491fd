package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/kicentre/madrasa/apps/api/echo"
	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/attendance"
	"github.com/kicentre/madrasa/core/catalog"
	"github.com/kicentre/madrasa/core/dashboard"
	"github.com/kicentre/madrasa/core/fee"
	"github.com/kicentre/madrasa/core/registration"
	"github.com/kicentre/madrasa/core/staff"
	"github.com/kicentre/madrasa/core/student"
	"github.com/kicentre/madrasa/core/user"
	emailsvc "github.com/kicentre/madrasa/services/email"
	logsvc "github.com/kicentre/madrasa/services/logger"
	"github.com/kicentre/madrasa/storage/database"
	sqlxrepos "github.com/kicentre/madrasa/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, core.Conf.AppName+" : ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if core.Conf.Debug || core.Conf.TestMode {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	db, err := database.Open(core.Conf)
	if err != nil {
		std.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	if err = database.Migrate(db.DB); err != nil {
		std.Fatalf("migrating database: %v", err)
	}

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	catalogSvc := catalog.NewService(sqlxrepos.NewCatalogRepository(db))
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db), catalogSvc)
	registrationSvc := registration.NewService(sqlxrepos.NewRegistrationRepository(db), studentSvc, mailSvc)
	staffSvc := staff.NewService(sqlxrepos.NewStaffRepository(db))
	feeSvc := fee.NewService(sqlxrepos.NewFeeRepository(db), studentSvc, catalogSvc)
	attendanceSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db), studentSvc)
	dashboardSvc := dashboard.NewService(studentSvc, staffSvc, registrationSvc, feeSvc, attendanceSvc)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Address:         core.Conf.Address(),
		Logger:          logger,
		UserSvc:         usrSvc,
		CatalogSvc:      catalogSvc,
		StudentSvc:      studentSvc,
		RegistrationSvc: registrationSvc,
		StaffSvc:        staffSvc,
		FeeSvc:          feeSvc,
		AttendanceSvc:   attendanceSvc,
		DashboardSvc:    dashboardSvc,
		SignalShutdown:  func() { shutdown <- syscall.SIGTERM },
	})

	go app.Start()

	<-shutdown
	std.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		std.Fatalf("stopping server: %v", err)
	}
}
