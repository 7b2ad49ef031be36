package config

const (
	defaultStagingDir          = "~/.local/share/tubepost/staging"
	defaultLogDir              = "~/.local/share/tubepost/logs"
	defaultStaleWorkspaceHours = 24

	SourceKindAPI  = "api"
	SourceKindFeed = "feed"

	defaultSourceKind     = SourceKindAPI
	defaultPlaylistID     = "PLkkCdeu97j3DVg0ZhXg7LY6vFuHqohGEf"
	defaultChannelID      = "UCCK3OZi788Ok44K97WAhLKQ"
	defaultYouTubeBaseURL = "https://www.googleapis.com"
	defaultFeedURL        = "https://www.youtube.com/feeds/videos.xml"
	defaultWatchURL       = "https://www.youtube.com/watch"
	defaultPageSize       = 50
	maxPageSize           = 50

	StateBackendGitHub = "github"
	StateBackendFile   = "file"
	StateBackendSQLite = "sqlite"
	StateBackendRedis  = "redis"

	defaultStateBackend  = StateBackendGitHub
	defaultStateVariable = "LAST_PROCESSED_VIDEO_ID"
	defaultGitHubAPIURL  = "https://api.github.com"
	defaultStateFile     = "~/.local/share/tubepost/previous_video_id.txt"
	defaultStateSQLite   = "~/.local/share/tubepost/state.db"
	defaultRedisKey      = "tubepost:last_processed_id"

	defaultYtDlpBinary    = "yt-dlp"
	defaultAcquireFormat  = "bestaudio/best"
	defaultAcquireTimeout = 900

	CodecWAV = "wav"
	CodecMP3 = "mp3"

	defaultFFmpegBinary     = "ffmpeg"
	defaultSampleRate       = 16000
	defaultTranscodeCodec   = CodecWAV
	defaultTranscodeTimeout = 600

	SummaryInputAudio = "audio"
	SummaryInputTitle = "title"

	defaultSummaryInput = SummaryInputAudio
	defaultLanguage     = "en"
	defaultStyle        = "a short, engaging social media post that summarizes the episode for people who have not watched it"

	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-2.5-flash"
	defaultLLMTitle          = "tubepost"
	defaultLLMTimeoutSeconds = 180

	PublishTargetFacebook = "facebook"
	PublishTargetTelegram = "telegram"

	defaultPublishTarget   = PublishTargetFacebook
	defaultGraphURL        = "https://graph.facebook.com"
	defaultGraphAPIVersion = "v21.0"
	defaultTelegramAPIURL  = "https://api.telegram.org"
	defaultRequestTimeout  = 15
	defaultNotifyTimeout   = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir:          defaultStagingDir,
			LogDir:              defaultLogDir,
			StaleWorkspaceHours: defaultStaleWorkspaceHours,
		},
		Source: Source{
			Kind:           defaultSourceKind,
			PlaylistID:     defaultPlaylistID,
			ChannelID:      defaultChannelID,
			BaseURL:        defaultYouTubeBaseURL,
			FeedURL:        defaultFeedURL,
			WatchURL:       defaultWatchURL,
			PageSize:       defaultPageSize,
			RequestTimeout: defaultRequestTimeout,
		},
		State: State{
			Backend:        defaultStateBackend,
			Variable:       defaultStateVariable,
			GitHubAPIURL:   defaultGitHubAPIURL,
			FilePath:       defaultStateFile,
			SQLitePath:     defaultStateSQLite,
			RedisKey:       defaultRedisKey,
			RequestTimeout: defaultRequestTimeout,
		},
		Acquire: Acquire{
			YtDlpBinary:    defaultYtDlpBinary,
			Format:         defaultAcquireFormat,
			TimeoutSeconds: defaultAcquireTimeout,
		},
		Transcode: Transcode{
			FFmpegBinary:   defaultFFmpegBinary,
			SampleRate:     defaultSampleRate,
			Codec:          defaultTranscodeCodec,
			TimeoutSeconds: defaultTranscodeTimeout,
		},
		Summary: Summary{
			Input:    defaultSummaryInput,
			Language: defaultLanguage,
			Style:    defaultStyle,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Publish: Publish{
			Target:         defaultPublishTarget,
			RequestTimeout: defaultRequestTimeout,
		},
		Facebook: Facebook{
			GraphURL:   defaultGraphURL,
			APIVersion: defaultGraphAPIVersion,
		},
		Telegram: Telegram{
			APIURL: defaultTelegramAPIURL,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			RunFailed:      true,
			Published:      true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
