package services

import (
	"os"
	"path/filepath"

	"github.com/stretchr/testify/assert"

	"github.com/placese/placese-beatstore/internal/config"
	"github.com/placese/placese-beatstore/internal/models"
	"github.com/placese/placese-beatstore/internal/upload"
)

func (suite *ServiceTestSuite) TestAttachImageToBeat() {
	bm := suite.beatmaker("Kosmo")
	beat := suite.beat(bm, "Lofi Dream", "19.99")

	result, err := suite.svc.Images.AttachImage(beat, "cover.final.PNG", pngHeader)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "images/beat_beats_images/lofi-dream/lofi-dream.PNG", result.Key)
	assert.Equal(suite.T(), result.Key, beat.Image)

	_, err = os.Stat(filepath.Join(suite.cfg.Storage.LocalPath, filepath.FromSlash(result.Key)))
	assert.NoError(suite.T(), err)

	stored, err := suite.svc.Beats.GetBeat(beat.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), result.Key, stored.Image)
}

func (suite *ServiceTestSuite) TestAttachImageThroughCartProduct() {
	bm := suite.beatmaker("Kosmo")
	beat := suite.beat(bm, "Fog", "1.00")
	cart := suite.cartWith(suite.customer("mira"), beat)
	suite.Require().Len(cart.Products, 1)

	result, err := suite.svc.Images.AttachImage(&cart.Products[0], "art.jpg", []byte{0xFF, 0xD8, 0xFF, 0xE0})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "images/beat_beats_images/fog/fog.jpg", result.Key)

	stored, err := suite.svc.Beats.GetBeat(beat.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), result.Key, stored.Image)
}

func (suite *ServiceTestSuite) TestAttachImageToBeatmaker() {
	bm := suite.beatmaker("Kosmo")

	result, err := suite.svc.Images.AttachImage(bm, "me.gif", []byte("GIF89a...."))
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "images/beatmaker_beatmakers_images/kosmo/kosmo.gif", result.Key)
	assert.Equal(suite.T(), result.Key, bm.Image)
}

func (suite *ServiceTestSuite) TestAttachImageRejections() {
	bm := suite.beatmaker("Kosmo")
	beat := suite.beat(bm, "Fog", "1.00")

	_, err := suite.svc.Images.AttachImage(beat, "cover", pngHeader)
	assert.ErrorIs(suite.T(), err, upload.ErrNoExtension)

	_, err = suite.svc.Images.AttachImage(beat, "cover.png", []byte("plain text"))
	assert.ErrorIs(suite.T(), err, ErrInvalidImage)

	_, err = suite.svc.Images.AttachImage(beat, "cover.png", make([]byte, 2048))
	assert.ErrorIs(suite.T(), err, ErrImageTooLarge)

	// Genres resolve through the default rule but carry no image column
	genre, err := suite.svc.Catalog.CreateGenre(&CreateGenreRequest{Name: "Trap"})
	suite.Require().NoError(err)
	_, err = suite.svc.Images.AttachImage(genre, "trap.png", pngHeader)
	assert.ErrorIs(suite.T(), err, ErrNotImageBearing)

	_, err = suite.svc.Images.AttachImage(struct{}{}, "x.png", pngHeader)
	assert.ErrorIs(suite.T(), err, upload.ErrNotAnEntity)

	// Nothing was written for the rejected uploads
	_, err = os.Stat(filepath.Join(suite.cfg.Storage.LocalPath, "images", "beat_beats_images"))
	assert.True(suite.T(), os.IsNotExist(err))

	stored, err := suite.svc.Beats.GetBeat(beat.ID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), stored.Image)
}

func (suite *ServiceTestSuite) TestUploadResolverWithoutDefault() {
	resolver, err := NewUploadResolver(config.UploadConfig{Root: "media"})
	suite.Require().NoError(err)

	path, err := resolver.Path(&models.Playlist{Slug: "chill"}, "c.webp")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "media/playlist_playlists_images/chill/chill.webp", path)

	_, err = resolver.Path(&models.Genre{Slug: "trap"}, "t.png")
	assert.ErrorIs(suite.T(), err, upload.ErrUnknownEntityType)

	_, err = NewUploadResolver(config.UploadConfig{})
	assert.ErrorIs(suite.T(), err, upload.ErrInvalidConfig)
}
