package tui

import (
	"fmt"

	"github.com/verte-zerg/nback/internal/feedback"
)

type texts struct {
	level        string
	combo        string
	progress     string
	time         string
	batch        string
	memorize     string
	inputPrompt  func(n int) string
	flushPrompt  string
	levelStart   func(n int) string
	wrong        string
	calculating  string
	finishTitle  string
	score        string
	accuracy     string
	maxCombo     string
	streak       func(days int) string
	unlocked     func(level int) string
	batchDone    func(n int, acc float64) string
	nextLevel    map[string]string
	continueHint string
	timeUp       string
	exitHint     string
	saveFailed   string

	tutorialIntro string
	tutorialSteps []string
	tutorialOutro string
	tutorialWrong string
}

var locales = map[feedback.Locale]texts{
	feedback.LocaleEN: {
		level:       "Level",
		combo:       "Combo",
		progress:    "Progress",
		time:        "Time",
		batch:       "Batch",
		memorize:    "Memorize! Press space when ready.",
		inputPrompt: func(n int) string { return fmt.Sprintf("Answer from %d ago", n) },
		flushPrompt: "Empty cache! Answer!",
		levelStart:  func(n int) string { return fmt.Sprintf("Level %d-Back! Focus!", n) },
		wrong:       "Hiss! Wrong!",
		calculating: "Calculating brain age...",
		finishTitle: "Training Complete",
		score:       "Score",
		accuracy:    "Accuracy",
		maxCombo:    "Max Combo",
		streak:      func(days int) string { return fmt.Sprintf("Checked in! Streak: %d day(s)", days) },
		unlocked:    func(level int) string { return fmt.Sprintf("Unlocked %d-Back!", level) },
		batchDone: func(n int, acc float64) string {
			return fmt.Sprintf("Batch %d done: %.0f%% correct", n, acc*100)
		},
		nextLevel: map[string]string{
			"Up":   "Level up to %d-Back!",
			"Down": "Back to %d-Back.",
			"Keep": "Staying at %d-Back.",
		},
		continueHint: "Press space to continue",
		timeUp:       "Time is up!",
		exitHint:     "Press enter to exit",
		saveFailed:   "Failed to save progress: %v",

		tutorialIntro: "Rule: always input the answer from N turns ago. For 1-Back, input the PREVIOUS answer.",
		tutorialSteps: []string{
			"[Memorize Round] 3+3=6. Don't type! Just memorize 6, then press space.",
			"[Answer Round 1] New: 2+2=4. Input PREVIOUS (6)! Memorize CURRENT (4)!",
			"[Answer Round 2] New: 5-0=5. Input PREVIOUS (4)! Memorize CURRENT (5)!",
			"[Flush Round] No more questions. Input the last one (5)!",
		},
		tutorialOutro: "Awesome! That's the loop: output the old, store the new. Go challenge!",
		tutorialWrong: "Wrong meow! Check the hint!",
	},
	feedback.LocaleZH: {
		level:       "难度",
		combo:       "连击",
		progress:    "进度",
		time:        "时间",
		batch:       "阶段",
		memorize:    "记住这个！准备好后按空格。",
		inputPrompt: func(n int) string { return fmt.Sprintf("输入 %d 轮前的答案", n) },
		flushPrompt: "清空大脑缓存！回答！",
		levelStart:  func(n int) string { return fmt.Sprintf("难度 %d-Back! 快记住！", n) },
		wrong:       "嘶——！错啦！",
		calculating: "本喵正在计算你的脑年龄...",
		finishTitle: "特训结束",
		score:       "最终得分",
		accuracy:    "正确率",
		maxCombo:    "最大连击",
		streak:      func(days int) string { return fmt.Sprintf("打卡成功！已连续坚持 %d 天", days) },
		unlocked:    func(level int) string { return fmt.Sprintf("解锁 %d-Back！", level) },
		batchDone: func(n int, acc float64) string {
			return fmt.Sprintf("第 %d 阶段完成：正确率 %.0f%%", n, acc*100)
		},
		nextLevel: map[string]string{
			"Up":   "升级到 %d-Back！",
			"Down": "降回 %d-Back。",
			"Keep": "保持 %d-Back。",
		},
		continueHint: "按空格继续",
		timeUp:       "时间到！",
		exitHint:     "按回车退出",
		saveFailed:   "保存进度失败：%v",

		tutorialIntro: "规则：永远输入 N 轮之前的答案。比如 1-Back 就是输入上一题的答案。",
		tutorialSteps: []string{
			"【记忆回合】看到 3+3=6，不要输入！只要记住 6，然后按空格。",
			"【答题回合 1】新题是 2+2=4，输入上一题的 6！同时记住现在的 4！",
			"【答题回合 2】新题是 5-0=5，输入上一题的 4！同时记住现在的 5！",
			"【清空回合】题目没了，输入刚才记住的 5！",
		},
		tutorialOutro: "太棒了！这就是核心玩法：一边输出旧的，一边存入新的。去挑战吧！",
		tutorialWrong: "不对喵！请看提示！",
	},
}

func textsFor(loc feedback.Locale) texts {
	if t, ok := locales[loc]; ok {
		return t
	}
	return locales[feedback.LocaleEN]
}
