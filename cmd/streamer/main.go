package main

import (
	"context"
	goflag "flag"
	"net/url"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/daryl-piggybanx/streamlift/pkg/com"
	"github.com/daryl-piggybanx/streamlift/pkg/config"
	"github.com/daryl-piggybanx/streamlift/pkg/input"
	"github.com/daryl-piggybanx/streamlift/pkg/logger"
	"github.com/daryl-piggybanx/streamlift/pkg/monitoring"
	xos "github.com/daryl-piggybanx/streamlift/pkg/os"
	"github.com/daryl-piggybanx/streamlift/pkg/service"
	"github.com/daryl-piggybanx/streamlift/pkg/session"
	"github.com/daryl-piggybanx/streamlift/pkg/stream"
	"github.com/daryl-piggybanx/streamlift/pkg/webrtc"
)

var Version = "?"

func main() {
	conf := config.NewClientConfig()
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	conf.ParseFlags()

	log := logger.NewConsole(conf.Client.Debug, "s", false)

	log.Info().Msgf("version %s", Version)
	if log.GetLevel() < logger.InfoLevel {
		log.Debug().Msgf("config: %+v", conf)
	}

	addr, err := url.Parse(conf.Client.ServiceAddress)
	if err != nil || addr.Host == "" {
		log.Fatal().Err(err).Msgf("bad service address: %v", conf.Client.ServiceAddress)
	}

	connector := com.NewConnector()
	client, err := connector.NewClient(*addr, log)
	if err != nil {
		log.Fatal().Err(err).Msg("session service connect failed")
	}
	done := client.Listen()

	factory, err := webrtc.NewApiFactory(conf.Webrtc, log, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("webrtc init failed")
	}
	peer := webrtc.NewPeer(factory, log)

	store := session.NewStore(conf.Session.StorePath, conf.Session.MaxAge, log)
	controller := stream.New(stream.NewRemote(client), peer, store, conf.Session, log)
	peer.OnStateChange = controller.HandleConnectionState
	peer.OnChannelError = controller.HandleChannelError
	peer.OnServerDisconnect = controller.HandleServerDisconnect

	// the virtual control surface feeds the peer directly
	widgets := input.NewWidgets(peer, conf.Input, nil)
	defer widgets.Close()
	controls := stream.NewControls(controller, widgets, input.Environment{}, conf.Input.ForceWidgets)
	controls.OnChange(func() {
		log.Debug().Msgf("controls changed, widgets visible: %v", controls.WidgetsVisible())
	})

	services := service.Group{}
	if conf.Monitoring.IsEnabled() {
		services.Add(monitoring.New(conf.Monitoring, log))
	}
	services.Start()

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		if !store.Current().Empty() {
			if err := controller.Reconnect(); err == nil {
				return nil
			}
			log.Warn().Msg("stored session resume failed, starting fresh")
		}
		return controller.Start(ctx)
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("session start failed")
	}

	select {
	case <-xos.ExpectTermination():
	case <-done:
		log.Warn().Msg("session service connection lost")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := controls.Disconnect(); err != nil {
		log.Error().Err(err).Msg("terminate on shutdown")
	}
	if err := services.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("service shutdown errors")
	}
	client.Close()
}
