package fixture_test

import (
	"context"
	"path/filepath"
	"testing"

	fixture "github.com/okian/fantasybroker/internal/fixture"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshot(t *testing.T) {
	ctx := context.Background()

	Convey("Given a handwritten league snapshot", t, func() {
		owner := int64(1)
		snap := &fixture.Snapshot{
			ID: "demo",
			Teams: []fixture.TeamRow{
				{ID: 1, Name: "Reds", Position: 1, RecentAvg: 6},
				{ID: 2, Name: "Blues", Position: 2, RecentAvg: 4},
			},
			Fixtures: []fixture.FixtureRow{{Round: 5, Home: 1, Away: 2}},
			Players: []fixture.PlayerRow{
				{ID: 10, Name: "star", TeamID: 1, Position: "FWD", MarketValue: 3_000_000, TitularProb: 0.9, OnMarket: true},
				{ID: 11, Name: "mine", TeamID: 2, Position: "DEF", MarketValue: 2_000_000, TitularProb: 0.8, OwnerID: &owner, ClauseValue: 2_500_000, Clausulable: true, BuyPrice: 1_500_000},
			},
			Participants: []fixture.ParticipantRow{{ID: 1, Money: 5_000_000}},
			Points: map[int64][]fixture.PointRow{
				10: {{Round: 4, Points: 6}},
			},
			Market: map[int64][]fixture.MarketRow{
				10: {{Value: 2_800_000}},
			},
		}

		Convey("When saving and reloading it", func() {
			path := filepath.Join(t.TempDir(), "league.yaml")
			So(snap.Save(path), ShouldBeNil)

			loaded, err := fixture.LoadSnapshot(path)
			So(err, ShouldBeNil)

			Convey("Then the round trip preserves the league", func() {
				So(loaded.ID, ShouldEqual, "demo")
				So(len(loaded.Players), ShouldEqual, 2)
				So(loaded.Players[1].ClauseValue, ShouldEqual, int64(2_500_000))
			})
		})

		Convey("When loading it into a store", func() {
			store := snap.ToStore()

			Convey("Then queries see the snapshot data", func() {
				players, err := store.Players(ctx)
				So(err, ShouldBeNil)
				So(len(players), ShouldEqual, 2)
				So(players[0].TeamName, ShouldEqual, "Reds")

				owned, err := store.OwnedPlayers(ctx, 1)
				So(err, ShouldBeNil)
				So(len(owned), ShouldEqual, 1)
				So(owned[0].BuyPrice, ShouldEqual, int64(1_500_000))

				pos, err := store.TeamPosition(ctx, 2)
				So(err, ShouldBeNil)
				So(pos, ShouldEqual, 2)
			})
		})
	})
}
