package integration

import (
	"net/http"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/stacklok/media-readiness-server/internal/api/v1"
	"github.com/stacklok/media-readiness-server/internal/notify"
	"github.com/stacklok/media-readiness-server/internal/store"
	"github.com/stacklok/media-readiness-server/test-integration/readiness-api/helpers"
)

var _ = Describe("Webhook Notifications", Label("notifications"), func() {
	var (
		tempDir      string
		libraryFile  string
		receiver     *helpers.WebhookReceiver
		serverHelper *helpers.ServerTestHelper
		webhook      store.Webhook
	)

	BeforeEach(func() {
		tempDir = createTempDir("notify-test-")
		libraryFile = filepath.Join(tempDir, "library.json")
		receiver = helpers.NewWebhookReceiver()

		helpers.WriteLibrary(libraryFile, helpers.LibraryExport{
			Series: []helpers.SeriesData{
				helpers.NewSeries("show-a", "Show A", 4, 1),
				helpers.NewSeries("show-b", "Show B", 4, 1),
			},
			Movies: []helpers.MovieData{
				helpers.NewMovie("movie-c", "Movie C", false),
				helpers.NewMovie("movie-d", "Movie D", true),
			},
		})

		configFile := helpers.WriteConfigYAML(tempDir, libraryFile, filepath.Join(tempDir, "data"), nil)
		var err error
		serverHelper, err = helpers.NewServerTestHelper(ctx, configFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
		serverHelper.WaitForSnapshotVersion(1, 10*time.Second)

		enabled := true
		webhook = serverHelper.CreateWebhook(v1.WebhookRequest{
			Name:    "receiver",
			URL:     receiver.URL(),
			Type:    store.WebhookTypeGeneric,
			Enabled: &enabled,
			Filters: &store.WebhookFilters{OnReady: true, OnAlmostReady: true},
		})
		Expect(webhook.ID).NotTo(BeEmpty())
	})

	AfterEach(func() {
		Expect(serverHelper.StopServer()).To(Succeed())
		receiver.Close()
		cleanupTempDir(tempDir)
	})

	It("should not notify when nothing changed", func() {
		Expect(serverHelper.TriggerSync()).To(Equal(http.StatusAccepted))
		serverHelper.WaitForSnapshotVersion(2, 10*time.Second)

		Consistently(receiver.Events, 500*time.Millisecond, 100*time.Millisecond).Should(BeEmpty())
	})

	It("should notify on upward transitions only", func() {
		helpers.WriteLibrary(libraryFile, helpers.LibraryExport{
			Series: []helpers.SeriesData{
				helpers.NewSeries("show-a", "Show A", 4, 4),
				helpers.NewSeries("show-b", "Show B", 4, 3),
			},
			Movies: []helpers.MovieData{
				helpers.NewMovie("movie-c", "Movie C", true),
				helpers.NewMovie("movie-d", "Movie D", false),
			},
		})
		Expect(serverHelper.TriggerSync()).To(Equal(http.StatusAccepted))
		serverHelper.WaitForSnapshotVersion(2, 10*time.Second)

		events := map[string]string{}
		for _, e := range receiver.Events() {
			events[e.ItemID] = e.Event
		}
		Expect(events).To(Equal(map[string]string{
			"show-a":  notify.EventItemReady,
			"show-b":  notify.EventItemAlmostReady,
			"movie-c": notify.EventItemReady,
		}))
	})

	It("should not notify about dismissed items", func() {
		serverHelper.DismissItem("show-a")

		helpers.WriteLibrary(libraryFile, helpers.LibraryExport{
			Series: []helpers.SeriesData{
				helpers.NewSeries("show-a", "Show A", 4, 4),
				helpers.NewSeries("show-b", "Show B", 4, 1),
			},
			Movies: []helpers.MovieData{
				helpers.NewMovie("movie-c", "Movie C", true),
				helpers.NewMovie("movie-d", "Movie D", true),
			},
		})
		Expect(serverHelper.TriggerSync()).To(Equal(http.StatusAccepted))
		serverHelper.WaitForSnapshotVersion(2, 10*time.Second)

		events := receiver.Events()
		Expect(events).To(HaveLen(1))
		Expect(events[0].ItemID).To(Equal("movie-c"))

		item, code := serverHelper.GetItem("show-a")
		Expect(code).To(Equal(http.StatusOK))
		Expect(item.Dismissed).To(BeTrue())
	})

	It("should keep going when a receiver fails", func() {
		receiver.SetStatus(http.StatusInternalServerError)

		helpers.WriteLibrary(libraryFile, helpers.LibraryExport{
			Series: []helpers.SeriesData{helpers.NewSeries("show-a", "Show A", 4, 4)},
		})
		Expect(serverHelper.TriggerSync()).To(Equal(http.StatusAccepted))
		state := serverHelper.WaitForSnapshotVersion(2, 10*time.Second)
		Expect(state.LastError).To(BeEmpty())
		Expect(receiver.Events()).To(HaveLen(1))
	})

	It("should notify about the whole library after a restart only when seeding is off", func() {
		restart := func(seed bool) {
			Expect(serverHelper.StopServer()).To(Succeed())
			configFile := helpers.WriteConfigYAML(tempDir, libraryFile, filepath.Join(tempDir, "data"),
				&helpers.ConfigOptions{SeedOnFirstCycle: &seed})
			var err error
			serverHelper, err = helpers.NewServerTestHelper(ctx, configFile)
			Expect(err).NotTo(HaveOccurred())
			Expect(serverHelper.StartServer()).To(Succeed())
			serverHelper.WaitForServerReady(10 * time.Second)
			serverHelper.WaitForSnapshotVersion(1, 10*time.Second)
		}

		restart(true)
		Expect(receiver.Events()).To(BeEmpty())

		restart(false)
		events := receiver.Events()
		Expect(events).To(HaveLen(1))
		Expect(events[0].ItemID).To(Equal("movie-d"))
		Expect(events[0].Event).To(Equal(notify.EventItemReady))
	})

	It("should deliver test notifications", func() {
		resp, code := serverHelper.TestWebhook(webhook.ID)
		Expect(code).To(Equal(http.StatusOK))
		Expect(resp.Delivered).To(BeTrue())

		events := receiver.Events()
		Expect(events).To(HaveLen(1))
		Expect(events[0].Event).To(Equal(notify.EventWebhookTest))

		_, code = serverHelper.TestWebhook("missing")
		Expect(code).To(Equal(http.StatusNotFound))
	})
})
