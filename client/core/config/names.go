package config

// 合约模块名
const (
	ModulePlatform       = "platform"
	ModuleOrganizer      = "organizer"
	ModuleUser           = "user"
	ModuleActivity       = "activity"
	ModuleTicket         = "ticket"
	ModuleTransferPolicy = "ticket_transfer_policy"
	ModuleApp            = "app"
)

// 结构体名
const (
	StructPlatform          = "Platform"
	StructOrganizerCap      = "OrganizerCap"
	StructOrganizerProfile  = "OrganizerProfile"
	StructUserCap           = "UserCap"
	StructUserProfile       = "UserProfile"
	StructActivity          = "Activity"
	StructTicket            = "Ticket"
	StructProtectedTicket   = "ProtectedTicket"
	StructTransferPolicyCap = "TransferPolicyCap"
)

// platform 模块函数
const (
	FnPlatformUpdateName   = "update_name"
	FnPlatformWithdrawFees = "withdraw_fees"
)

// organizer 模块函数
const (
	FnOrganizerRegister        = "register"
	FnOrganizerUpdateName      = "update_name"
	FnOrganizerWithdrawBalance = "withdraw_balance"
)

// user 模块函数
const (
	FnUserRegister   = "register"
	FnUserUpdateName = "update_name"
)

// activity 模块函数
const (
	FnActivityCreate            = "create_activity"
	FnActivityUpdateTicketPrice = "update_ticket_price"
	FnActivityTicketPrice       = "ticket_price"
	FnActivityIsSaleActive      = "is_sale_active"
	FnActivityRemainingSupply   = "remaining_supply"
)

// ticket 模块函数
const (
	FnTicketPurchase   = "purchase_ticket"
	FnTicketRedeem     = "redeem"
	FnTicketProtect    = "protect"
	FnTicketUnprotect  = "unprotect"
	FnTicketIsRedeemed = "is_redeemed"
)

// ticket_transfer_policy 模块函数
const (
	FnPolicyAddRoyaltyRule           = "add_royalty_rule"
	FnPolicyRemoveRoyaltyRule        = "remove_royalty_rule"
	FnPolicyAddResaleLimitRule       = "add_resale_limit_rule"
	FnPolicyRemoveResaleLimitRule    = "remove_resale_limit_rule"
	FnPolicyAddPlatformFeeRule       = "add_platform_fee_rule"
	FnPolicyRemovePlatformFeeRule    = "remove_platform_fee_rule"
	FnPolicyWithdraw                 = "withdraw"
	FnPolicyGetRoyaltyRuleConfig     = "get_royalty_rule_config"
	FnPolicyGetResaleLimitRuleConfig = "get_resale_limit_rule_config"
	FnPolicyGetPlatformFeeRuleConfig = "get_platform_fee_rule_config"
	FnPolicyCalculateRoyaltyFee      = "calculate_royalty_fee"
	FnPolicyCalculatePlatformFee     = "calculate_platform_fee"
)

// app 模块函数
const (
	FnAppListTicket     = "list_ticket"
	FnAppDelistTicket   = "delist_ticket"
	FnAppPurchaseTicket = "purchase_ticket"
	FnAppListedPrice    = "listed_price"
)

// 框架包(0x2)中用到的目标与类型
const (
	FrameworkPackage        = "0x2"
	FrameworkKioskNew       = "0x2::kiosk::new"
	FrameworkPublicShare    = "0x2::transfer::public_share_object"
	FrameworkKioskType      = "0x2::kiosk::Kiosk"
	FrameworkKioskOwnerCap  = "0x2::kiosk::KioskOwnerCap"
	FrameworkCoinType       = "0x2::coin::Coin"
	NativeCoinType          = "0x2::sui::SUI"
	FrameworkModuleKiosk    = "kiosk"
	FrameworkStructKioskCap = "KioskOwnerCap"
)
