package services

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *ServiceTestSuite) TestPlaylistMembership() {
	bm := suite.beatmaker("Kosmo")
	b1 := suite.beat(bm, "Zephyr", "1.00")
	b2 := suite.beat(bm, "Aria", "2.00")

	playlist, err := suite.svc.Playlists.CreatePlaylist(&CreatePlaylistRequest{
		Name:    "Late Night",
		BeatIDs: []uuid.UUID{b1.ID, b1.ID},
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "late-night", playlist.Slug)
	suite.Require().Len(playlist.Beats, 1)
	assert.Equal(suite.T(), "Kosmo", playlist.Beats[0].Beatmaker.Name)

	suite.Require().NoError(suite.svc.Playlists.AddBeat(playlist.ID, b2.ID))
	suite.Require().NoError(suite.svc.Playlists.AddBeat(playlist.ID, b2.ID))

	beats, err := suite.svc.Playlists.ListBeats(playlist.ID)
	suite.Require().NoError(err)
	suite.Require().Len(beats, 2)
	assert.Equal(suite.T(), "Aria", beats[0].Title)

	assert.ErrorIs(suite.T(), suite.svc.Playlists.AddBeat(playlist.ID, uuid.New()), ErrNotFound)
	assert.ErrorIs(suite.T(), suite.svc.Playlists.AddBeat(uuid.New(), b1.ID), ErrNotFound)

	suite.Require().NoError(suite.svc.Playlists.RemoveBeat(playlist.ID, b1.ID))
	beats, err = suite.svc.Playlists.ListBeats(playlist.ID)
	suite.Require().NoError(err)
	suite.Require().Len(beats, 1)
	assert.Equal(suite.T(), b2.ID, beats[0].ID)
}

func (suite *ServiceTestSuite) TestCreatePlaylistRollsBack() {
	_, err := suite.svc.Playlists.CreatePlaylist(&CreatePlaylistRequest{
		Name:    "Broken",
		BeatIDs: []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(suite.T(), err, ErrNotFound)

	_, err = suite.svc.Playlists.GetPlaylist("broken")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ServiceTestSuite) TestDeletePlaylistKeepsBeats() {
	bm := suite.beatmaker("Kosmo")
	beat := suite.beat(bm, "Fog", "1.00")

	playlist, err := suite.svc.Playlists.CreatePlaylist(&CreatePlaylistRequest{
		Name:    "Fog Only",
		BeatIDs: []uuid.UUID{beat.ID},
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.svc.Playlists.DeletePlaylist(playlist.ID))
	_, err = suite.svc.Playlists.GetPlaylist(playlist.Slug)
	assert.ErrorIs(suite.T(), err, ErrNotFound)

	var links int64
	suite.db.Table("playlist_beats").Where("playlist_id = ?", playlist.ID).Count(&links)
	assert.Zero(suite.T(), links)

	_, err = suite.svc.Beats.GetBeat(beat.ID)
	assert.NoError(suite.T(), err)

	assert.ErrorIs(suite.T(), suite.svc.Playlists.DeletePlaylist(playlist.ID), ErrNotFound)
}
