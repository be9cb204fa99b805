package integration

import (
	"net/http"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stacklok/media-readiness-server/internal/readiness"
	"github.com/stacklok/media-readiness-server/internal/status"
	"github.com/stacklok/media-readiness-server/test-integration/readiness-api/helpers"
)

var _ = Describe("File Library Sync", Label("sync"), func() {
	var (
		tempDir      string
		libraryFile  string
		dataDir      string
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("sync-test-")
		libraryFile = filepath.Join(tempDir, "library.json")
		dataDir = filepath.Join(tempDir, "data")
	})

	AfterEach(func() {
		if serverHelper != nil {
			Expect(serverHelper.StopServer()).To(Succeed())
			serverHelper = nil
		}
		cleanupTempDir(tempDir)
	})

	startServer := func(opts *helpers.ConfigOptions) {
		configFile := helpers.WriteConfigYAML(tempDir, libraryFile, dataDir, opts)
		var err error
		serverHelper, err = helpers.NewServerTestHelper(ctx, configFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
	}

	Context("Loading from a library export", func() {
		BeforeEach(func() {
			helpers.WriteLibrary(libraryFile, helpers.LibraryExport{
				Series: []helpers.SeriesData{
					helpers.NewSeries("show-a", "Show A", 4, 3),
					helpers.NewSeries("show-b", "Show B", 4, 1),
				},
				Movies: []helpers.MovieData{
					helpers.NewMovie("movie-c", "Movie C", true),
					helpers.NewMovie("movie-d", "Movie D", false),
				},
			})
		})

		It("should publish the snapshot and evaluate every item", func() {
			startServer(nil)
			serverHelper.WaitForLibrarySynced(10 * time.Second)
			state := serverHelper.WaitForSnapshotVersion(1, 10*time.Second)
			Expect(state.LastError).To(BeEmpty())
			Expect(state.SeriesCount).To(Equal(2))
			Expect(state.MovieCount).To(Equal(2))

			summary := serverHelper.GetLibrarySummary()
			Expect(summary.Synced).To(BeTrue())
			Expect(summary.EpisodeCount).To(Equal(8))
			Expect(summary.Hash).NotTo(BeEmpty())

			items := serverHelper.GetItems("")
			Expect(items.Count).To(Equal(4))
			statuses := map[string]readiness.Status{}
			for _, item := range items.Items {
				statuses[item.ItemID] = item.Status
			}
			Expect(statuses).To(Equal(map[string]readiness.Status{
				"show-a":  readiness.StatusAlmostReady,
				"show-b":  readiness.StatusNotReady,
				"movie-c": readiness.StatusReady,
				"movie-d": readiness.StatusNotReady,
			}))
			Expect(items.Items[0].ItemID).To(Equal("movie-c"), "ready items sort first")
		})

		It("should filter items by status and kind", func() {
			startServer(nil)
			serverHelper.WaitForLibrarySynced(10 * time.Second)

			notReadyMovies := serverHelper.GetItems("status=not-ready&kind=movie")
			Expect(notReadyMovies.Count).To(Equal(1))
			Expect(notReadyMovies.Items[0].ItemID).To(Equal("movie-d"))

			item, code := serverHelper.GetItem("show-a")
			Expect(code).To(Equal(http.StatusOK))
			Expect(item.ProgressPercent).To(BeNumerically("~", 0.75, 0.001))
			Expect(item.RuleResults).To(HaveLen(1))
			Expect(item.RuleResults[0].CompactDetail).To(Equal("3/4 eps"))

			_, code = serverHelper.GetItem("unknown")
			Expect(code).To(Equal(http.StatusNotFound))
		})

		It("should apply the configured threshold and languages", func() {
			startServer(&helpers.ConfigOptions{ThresholdAlmost: "0.9", AudioLanguages: []string{"en"}})
			serverHelper.WaitForLibrarySynced(10 * time.Second)

			item, code := serverHelper.GetItem("show-a")
			Expect(code).To(Equal(http.StatusOK))
			Expect(item.Status).To(Equal(readiness.StatusNotReady))
			Expect(item.RuleResults).To(HaveLen(2))
			Expect(item.RuleResults[1].RuleName).To(Equal(readiness.RuleAudioLanguage))
		})

		It("should pick up library changes on a manual sync", func() {
			startServer(nil)
			serverHelper.WaitForSnapshotVersion(1, 10*time.Second)

			helpers.WriteLibrary(libraryFile, helpers.LibraryExport{
				Series: []helpers.SeriesData{helpers.NewSeries("show-a", "Show A", 4, 4)},
			})
			Expect(serverHelper.TriggerSync()).To(Equal(http.StatusAccepted))

			state := serverHelper.WaitForSnapshotVersion(2, 10*time.Second)
			Expect(state.Trigger).To(Equal(status.SyncTriggerManual))
			Expect(state.SeriesCount).To(Equal(1))
			Expect(state.MovieCount).To(Equal(0))

			items := serverHelper.GetItems("")
			Expect(items.Count).To(Equal(1))
			Expect(items.Items[0].Status).To(Equal(readiness.StatusReady))
		})

		It("should keep the sync state across restarts", func() {
			startServer(nil)
			first := serverHelper.WaitForSnapshotVersion(1, 10*time.Second)
			Expect(serverHelper.StopServer()).To(Succeed())

			startServer(nil)
			serverHelper.WaitForLibrarySynced(10 * time.Second)
			state := serverHelper.WaitForSnapshotVersion(1, 10*time.Second)
			Expect(state.LastSyncCompletedAt).NotTo(BeNil())
			Expect(state.LastSyncCompletedAt.Before(*first.LastSyncCompletedAt)).To(BeFalse())
		})
	})

	Context("Loading from a missing file", func() {
		It("should stay unready and report the failure", func() {
			startServer(nil)

			Eventually(func() status.SyncPhase {
				return serverHelper.GetSyncState().Phase
			}, 10*time.Second, 100*time.Millisecond).Should(Equal(status.SyncPhaseFailed))

			state := serverHelper.GetSyncState()
			Expect(state.LastError).To(ContainSubstring("file not found"))

			resp, err := http.Get(serverHelper.GetBaseURL() + "/readiness")
			Expect(err).NotTo(HaveOccurred())
			defer func() {
				_ = resp.Body.Close()
			}()
			Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
		})
	})
})
